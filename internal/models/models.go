package models

// User carries the currently valid token pair alongside the credentials.
// Both token columns are NULL while the user is signed out; issuing a new
// pair overwrites the previous one.
type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string  `gorm:"not null"                 json:"-"`
	AccessToken  *string `json:"-"`
	RefreshToken *string `json:"-"`
}

type Location struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"uniqueIndex;not null"     json:"name"`
	Address   string  `gorm:"not null"                 json:"address"`
	Latitude  float64 `gorm:"not null"                 json:"latitude"`
	Longitude float64 `gorm:"not null"                 json:"longitude"`
	CityID    uint    `gorm:"index"                    json:"city_id"`
}

type City struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
	Slug string `gorm:"uniqueIndex;not null"     json:"slug"`
}
