// Package models содержит доменные типы клуба: профили, абонементы, посещения,
// заказы магазина, уведомления и справочники, а также кодированные ошибки API.
package models

import "strings"

// Role роль пользователя в клубе.
type Role string

const (
	RoleMember         Role = "member"
	RoleAssistantCoach Role = "assistant_coach"
	RoleCoach          Role = "coach"
	RoleReception      Role = "reception"
	RoleAdmin          Role = "admin"
	RoleSuperAdmin     Role = "super_admin"
)

var (
	// StaffRoles могут сканировать QR на входе.
	StaffRoles = []Role{RoleReception, RoleAssistantCoach, RoleCoach, RoleAdmin, RoleSuperAdmin}
	// DeskRoles создают участников и оформляют абонементы.
	DeskRoles = []Role{RoleReception, RoleAdmin, RoleSuperAdmin}
	// AdminRoles управляют отчётами, рассылками и продлениями.
	AdminRoles = []Role{RoleAdmin, RoleSuperAdmin}
	// OrderingRoles могут оформлять заказы в магазине.
	OrderingRoles = []Role{RoleMember, RoleAssistantCoach, RoleCoach}
)

// ParseRole приводит строку к роли. Пустая строка считается member.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return RoleMember, true
	}
	r := Role(s)
	switch r {
	case RoleMember, RoleAssistantCoach, RoleCoach, RoleReception, RoleAdmin, RoleSuperAdmin:
		return r, true
	}
	return "", false
}

// In сообщает, входит ли роль в набор.
func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

// IsStaff сотрудник клуба.
func (r Role) IsStaff() bool { return r.In(StaffRoles...) }

// IsAdmin admin или super_admin.
func (r Role) IsAdmin() bool { return r.In(AdminRoles...) }

// CanAssign сообщает, может ли actor выставить роль target пользователю,
// у которого сейчас роль current.
func (r Role) CanAssign(current, target Role) bool {
	switch r {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		if current.IsAdmin() {
			return false
		}
		return target.In(RoleMember, RoleAssistantCoach, RoleCoach, RoleReception)
	}
	return false
}
