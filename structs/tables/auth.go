package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	Id           uuid.UUID  `json:"id" bun:"id,pk,type:uuid"`
	Name         string     `json:"name" bun:"name,notnull"`
	Email        string     `json:"email" bun:"email,unique,notnull"`
	PasswordHash string     `json:"-" bun:"password_hash,notnull"`
	IsAdmin      bool       `json:"is_admin" bun:"is_admin,notnull,default:false"`
	LastLogin    *time.Time `json:"last_login,omitempty" bun:"last_login,nullzero"`
	CreatedAt    time.Time  `json:"created_at" bun:"created_at,notnull,default:current_timestamp"`
}
