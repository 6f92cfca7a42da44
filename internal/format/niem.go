package format

import (
	"context"
	"strings"

	"github.com/eitanfass/DNA-lab/internal/model"
)

// NIEM reads NIEM biometrics DNA transactions (root element DNADataTransaction).
// A document carries a single case and specimen; each DNALocus carries one call.
type NIEM struct{}

func (n *NIEM) Kind() Kind { return KindNIEM }
func (n *NIEM) Extensions() []string { return []string{".xml"} }
func (n *NIEM) MatchesRoot(l string) bool { return strings.Contains(l, "DNADataTransaction") }

// Parse emits one call per DNALocus element.
func (n *NIEM) Parse(ctx context.Context, src Source) ([]model.AlleleCall, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	root, err := decodeTree(rc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	caseID := root.find("IdentificationID")
	if caseID == nil {
		return nil, malformed("niem: %s: no IdentificationID", src.FileName)
	}
	specimenID := root.find("DNASourceIdentification", "IdentificationID")
	if specimenID == nil {
		return nil, malformed("niem: %s: no DNASourceIdentification/IdentificationID", src.FileName)
	}

	readingBy := model.NotAvailable
	if dev := root.find("DeviceName"); dev != nil {
		readingBy = dev.value()
	}

	var calls []model.AlleleCall
	for _, locus := range root.descendants("DNALocus") {
		name := locus.child("DNALocusName")
		if name == nil {
			return nil, malformed("niem: %s: DNALocus without DNALocusName", src.FileName)
		}
		allele := locus.find("DNAAllele", "DNAAlleleCall1Text")
		if allele == nil {
			return nil, malformed("niem: %s: locus %q has no DNAAllele/DNAAlleleCall1Text", src.FileName, name.value())
		}

		readingTime := model.UnknownTime
		if t := locus.child("ProcessUTCDate"); t != nil {
			readingTime = t.value()
		}

		calls = append(calls, model.AlleleCall{
			FileName:        src.FileName,
			CaseID:          caseID.value(),
			SpecimenID:      specimenID.value(),
			SpecimenComment: model.NIEMComment,
			LocusName:       name.value(),
			ReadingBy:       readingBy,
			ReadingDateTime: readingTime,
			AlleleValue:     allele.value(),
		})
	}
	return calls, nil
}
