package models

import (
	"strings"
	"time"
)

// QRPrefix префикс QR-кода участника: "atom:{user_id}".
const QRPrefix = "atom:"

// Состояние приглашения.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
)

// Profile учётная запись пользователя клуба.
type Profile struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	QRCode       string    `json:"qr_code"`
	IDPhotoPath  string    `json:"id_photo_path,omitempty"`
	InviteState  string    `json:"invite_state"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName имя для писем и уведомлений.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	if p.Email != "" {
		return p.Email
	}
	return "Member"
}

// QRCodeFor строит QR-код участника.
func QRCodeFor(userID string) string {
	return QRPrefix + userID
}

// ProfilePatch частичное обновление контактных данных. Пустые поля не меняются.
type ProfilePatch struct {
	FirstName string
	LastName  string
	Phone     string
}

// Empty сообщает, что обновлять нечего.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == "" && p.LastName == "" && p.Phone == ""
}

// NewMemberRequest запрос стойки на создание участника.
type NewMemberRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=40"`
}

// CreateMemberResult результат создания или дополнения участника.
type CreateMemberResult struct {
	UserID     string  `json:"user_id"`
	Existed    bool    `json:"existed"`
	InviteSent bool    `json:"invite_sent"`
	Profile    Profile `json:"profile"`
}

// MemberSearch параметры поиска участников.
type MemberSearch struct {
	Query string
	Limit int
}

// MemberStats сводка по участникам.
type MemberStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// RoleChange запрос смены роли.
type RoleChange struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
