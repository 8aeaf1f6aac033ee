package model

import "gorm.io/datatypes"

// AssessmentDraft is the persisted snapshot of an authoring document. The
// document itself is stored as JSON; Title and TeacherID are copied out for
// listing.
// swagger:model AssessmentDraft
type AssessmentDraft struct {
	UUIDBase
	TeacherID uint           `gorm:"index" json:"teacherId"`
	Title     string         `gorm:"size:255" json:"title"`
	Document  datatypes.JSON `json:"document"`
	Version   int            `gorm:"default:0" json:"version"`
}

func (AssessmentDraft) TableName() string {
	return "assessment_drafts"
}
