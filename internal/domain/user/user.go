package user

import (
	"strings"

	"freightdesk/internal/domain/apitime"
)

type Role struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type User struct {
	ID        int64        `json:"id" yaml:"id"`
	Email     string       `json:"email" yaml:"email"`
	Username  string       `json:"username" yaml:"username"`
	FullName  *string      `json:"full_name" yaml:"full_name,omitempty"`
	Phone     *string      `json:"phone" yaml:"phone,omitempty"`
	IsActive  bool         `json:"is_active" yaml:"is_active"`
	Roles     []Role       `json:"roles" yaml:"roles,omitempty"`
	CreatedAt apitime.Time `json:"created_at" yaml:"created_at"`
}

func (u User) DisplayName() string {
	if u.FullName != nil && strings.TrimSpace(*u.FullName) != "" {
		return strings.TrimSpace(*u.FullName)
	}
	return "N/A"
}

func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

func (u User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if strings.EqualFold(role.Name, name) {
			return true
		}
	}
	return false
}

func (u User) ActiveLabel() string {
	if u.IsActive {
		return "Active"
	}
	return "Inactive"
}

type CreateRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
	RoleIDs  []int64 `json:"role_ids"`
}

func (r CreateRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Email) == "":
		return ErrEmailRequired
	case strings.TrimSpace(r.Username) == "":
		return ErrUsernameRequired
	case r.Password == "":
		return ErrPasswordRequired
	}
	return nil
}

// UpdateRequest omits the password unless it is being changed.
type UpdateRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
	RoleIDs  []int64 `json:"role_ids,omitempty"`
}

type ListFilter struct {
	Skip  int `url:"skip,omitempty"`
	Limit int `url:"limit,omitempty"`
}

type Page struct {
	Items []User `json:"items"`
	Total int    `json:"total"`
}

// Profile is the authenticated user as returned by /api/auth/me.
type Profile = User
