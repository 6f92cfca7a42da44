package model

import "strconv"

// Column names of the persisted match set.
var MatchColumns = []string{
	"SpecimenID1",
	"SpecimenID2",
	"MatchScore",
	"LatestMatchTime",
	"CaseID1",
	"CaseID2",
	"SpecimenComment1",
	"SpecimenComment2",
	"ReadingBy1",
	"ReadingBy2",
}

// Match is the result of comparing two profiles whose score reached the
// sensitivity threshold. The pair is ordered by profile iteration order.
type Match struct {
	SpecimenID1      string  `json:"specimen_id_1"`
	SpecimenID2      string  `json:"specimen_id_2"`
	MatchScore       float64 `json:"match_score"`
	LatestMatchTime  string  `json:"latest_match_time"`
	CaseID1          string  `json:"case_id_1"`
	CaseID2          string  `json:"case_id_2"`
	SpecimenComment1 string  `json:"specimen_comment_1"`
	SpecimenComment2 string  `json:"specimen_comment_2"`
	ReadingBy1       string  `json:"reading_by_1"`
	ReadingBy2       string  `json:"reading_by_2"`
}

// Row returns the match as a string slice in MatchColumns order.
func (m Match) Row() []string {
	return []string{
		m.SpecimenID1,
		m.SpecimenID2,
		strconv.FormatFloat(m.MatchScore, 'f', -1, 64),
		m.LatestMatchTime,
		m.CaseID1,
		m.CaseID2,
		m.SpecimenComment1,
		m.SpecimenComment2,
		m.ReadingBy1,
		m.ReadingBy2,
	}
}
