package Models

type UserSetting struct {
	UserId              string `json:"-" gorm:"primaryKey"`
	DefaultShareSpaceId string `json:"defaultShareSpaceId"`
}
