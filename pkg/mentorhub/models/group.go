package models

import (
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Group represents a tutoring group. The display name is optional: groups
// without one are labeled from their member count at render time.
type Group struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `json:"name"`
	MeetingID   string         `gorm:"index" json:"meeting_id,omitempty"`
	MeetingLink string         `json:"meeting_link,omitempty"`

	// Optional one-to-one link to a partner institution
	PartnershipID *uint        `gorm:"uniqueIndex" json:"partnership_id,omitempty"`
	Partnership   *Partnership `gorm:"foreignKey:PartnershipID" json:"partnership,omitempty"`

	// Relationships
	Members     []GroupUser  `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Transcripts []Transcript `gorm:"foreignKey:GroupID" json:"transcripts,omitempty"`
}

// BeforeDelete removes the group's memberships and transcripts before the
// group row itself goes away. Referential integrity is enforced here rather
// than with database constraints, so the dependents must be gone first. The
// two dependent tables are cleared in parallel and a failure in either aborts
// the delete.
func (g *Group) BeforeDelete(tx *gorm.DB) error {
	groupID := g.ID
	if groupID == 0 {
		return nil
	}

	var eg errgroup.Group
	eg.Go(func() error {
		return tx.Session(&gorm.Session{NewDB: true}).
			Where("group_id = ?", groupID).Delete(&GroupUser{}).Error
	})
	eg.Go(func() error {
		return tx.Session(&gorm.Session{NewDB: true}).
			Where("group_id = ?", groupID).Delete(&Transcript{}).Error
	})
	return eg.Wait()
}
