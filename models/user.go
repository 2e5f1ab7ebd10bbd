package models

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const passwordAlgorithm = "pbkdf2_sha256"

var PasswordIterations = 260000

type User struct {
	tableName struct{} `pg:"auth_users,alias:auth_user"`

	ID          int       `pg:"id,pk" json:"id"`
	Email       string    `pg:"email" json:"email"`
	Password    string    `pg:"password" json:"-"`
	IsAdmin     bool      `pg:"is_admin,notnull,use_zero" json:"is_admin"`
	IsSuperuser bool      `pg:"is_superuser,notnull,use_zero" json:"is_superuser"`
	CreatedAt   time.Time `pg:"created_at,notnull,default:now()" json:"created_at"`
}

func (s *User) String() string {
	return fmt.Sprintf("<User #%d %s>", s.ID, s.Email)
}

func (s *User) DisplayName() string {
	return s.Email
}

// MakePassword encodes raw as pbkdf2_sha256$<iterations>$<salt>$<hash>.
func MakePassword(raw string) string {
	salt := uniuri.NewLen(22)
	return encodePassword(raw, salt, PasswordIterations)
}

func encodePassword(raw string, salt string, iterations int) string {
	dk := pbkdf2.Key([]byte(raw), []byte(salt), iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s", passwordAlgorithm, iterations, salt, base64.StdEncoding.EncodeToString(dk))
}

func (s *User) VerifyPassword(raw string) bool {
	parts := strings.SplitN(s.Password, "$", 4)
	if len(parts) != 4 || parts[0] != passwordAlgorithm {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	expected := encodePassword(raw, parts[2], iterations)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(s.Password)) == 1
}

func GetUser(ctx context.Context, db pg.DBI, id int) (*User, error) {
	u := &User{}
	err := db.Model(u).
		Context(ctx).
		Where("auth_user.id = ?", id).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get user %d", id)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db pg.DBI, email string) (*User, error) {
	u := &User{}
	err := db.Model(u).
		Context(ctx).
		Where("auth_user.email = ?", email).
		Limit(1).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user by email")
	}
	return u, nil
}

func CreateUser(ctx context.Context, db pg.DBI, u *User) error {
	_, err := db.Model(u).
		Context(ctx).
		Returning("*").
		Insert()
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

func UpdateUser(ctx context.Context, db pg.DBI, u *User) error {
	_, err := db.Model(u).
		Context(ctx).
		Column("email", "password", "is_admin", "is_superuser").
		WherePK().
		Update()
	if err != nil {
		return errors.Wrapf(err, "failed to update user %d", u.ID)
	}
	return nil
}
