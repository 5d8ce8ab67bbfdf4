// Package model содержит доменные сущности сервиса промо-кампании Imagine.
package model

import "time"

// UserType описывает нормализованный канал, через который пользователь попал в кампанию.
type UserType string

const (
	UserTypeQR      UserType = "QR"
	UserTypeOnline  UserType = "ONLINE"
	UserTypeUnknown UserType = ""
)

// User представляет участника кампании в том виде, в каком его отдаёт удалённый бэкенд.
type User struct {
	ID           string
	Name         string
	Phone        string
	UserType     string
	StartDate    *time.Time
	DailyResults []string
	MessageSent  []string
	Redemption   Redemption
}

// RedeemerShape различает исторические формы поля redeemby.
type RedeemerShape int

const (
	RedeemerNone RedeemerShape = iota
	RedeemerSingle
	RedeemerPerSlot
)

// Redemption хранит сырое состояние погашения наград пользователя.
// Flags выровнены по индексу слота, нестроковые элементы заменены пустой строкой.
type Redemption struct {
	Flags     []string
	LegacyIDs []int
	Shape     RedeemerShape
	Redeemer  string
	Redeemers []string
}

// DayVariant: машинный тег статуса дня.
type DayVariant string

const (
	DayWon    DayVariant = "won"
	DayLost   DayVariant = "lost"
	DayAbsent DayVariant = "absent"
	DayPlayed DayVariant = "played"
	DayIdle   DayVariant = "idle"
)

// DayStatus описывает итог одного дня семидневного челленджа.
type DayStatus struct {
	Day     int        `json:"day"`
	Variant DayVariant `json:"variant"`
	Label   string     `json:"label"`
}

// Employee описывает сотрудника, работающего с админкой.
type Employee struct {
	Username string `json:"username"`
	Category string `json:"category,omitempty"`
	Location string `json:"location,omitempty"`
	City     string `json:"city,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Prebooking описывает предзаказ устройства.
type Prebooking struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Model     string    `json:"model"`
	Color     string    `json:"color"`
	Storage   string    `json:"storage"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}
