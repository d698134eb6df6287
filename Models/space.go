package Models

import (
	"gorm.io/gorm"
)

// Member roles within a space
const (
	RoleSubmitter = "submitter"
	RoleApprover  = "approver"
	RoleAdmin     = "admin" // space creator
)

type Space struct {
	Id          string        `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatorId   string        `json:"creator_id" gorm:"index"`
	Members     []SpaceMember `json:"members" gorm:"foreignKey:SpaceId;constraint:OnDelete:CASCADE"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	InviteCode  string        `json:"invite_code" gorm:"uniqueIndex"`
}

type SpaceMember struct {
	Id       uint   `json:"-" gorm:"primaryKey"`
	SpaceId  string `json:"-" gorm:"index"`
	UserId   string `json:"user_id" gorm:"index"`
	Role     string `json:"role"`
	Username string `json:"username,omitempty" gorm:"-"`
}

// SpaceRole returns the caller's role in a space, empty string if not a member
func SpaceRole(db *gorm.DB, spaceId, userId string) string {
	var member SpaceMember
	err := db.Where("space_id = ? AND user_id = ?", spaceId, userId).First(&member).Error
	if err != nil {
		return ""
	}
	return member.Role
}

// IsSpaceMember reports whether the user belongs to the space
func IsSpaceMember(db *gorm.DB, spaceId, userId string) bool {
	return SpaceRole(db, spaceId, userId) != ""
}

// DecorateMembers fills in the display name of every member from the users table
func DecorateMembers(db *gorm.DB, members []SpaceMember) []SpaceMember {
	for i := range members {
		members[i].Username = GetUsername(db, members[i].UserId)
	}
	return members
}
