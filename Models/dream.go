package Models

// Dream is a journal entry, personal or shared into a space
type Dream struct {
	Id        string `json:"id" gorm:"primaryKey"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	SpaceId   string `json:"space_id,omitempty" gorm:"index"`
	UserId    string `json:"user_id" gorm:"index"`
	Username  string `json:"username,omitempty" gorm:"-"`
}
