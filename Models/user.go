package Models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	Id           string `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// GetUsername resolves a user id to its display name, empty if unknown
func GetUsername(db *gorm.DB, userId string) string {
	var user User
	if err := db.Select("username").Where("id = ?", userId).First(&user).Error; err != nil {
		return ""
	}
	return user.Username
}
