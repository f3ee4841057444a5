package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Question is one multiple-choice item in the test bank. The bank is replaced
// wholesale on admin bulk upload; QID is the identifier supplied in that upload.
type Question struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	QID           string         `gorm:"size:64;not null;uniqueIndex" json:"id"`
	Text          string         `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSON `gorm:"type:json" json:"options"`
	CorrectAnswer string         `gorm:"size:1;not null" json:"correct_answer"`
}

// OptionList decodes the stored options column.
func (q Question) OptionList() []string {
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}
	return options
}
