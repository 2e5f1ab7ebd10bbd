package models

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	"github.com/podcast-io/web-ui/services/common"
)

const TokenLength = 48

type FileType string

const (
	FileTypeAudio FileType = "audio"
	FileTypeRSS   FileType = "rss"
	FileTypeImage FileType = "image"
)

type File struct {
	tableName struct{} `pg:"media_files,alias:file"`

	ID          int            `pg:"id,pk" json:"id"`
	Type        FileType       `pg:"type,notnull" json:"type"`
	Path        string         `pg:"path,notnull,use_zero" json:"path"`
	Size        int64          `pg:"size,notnull,use_zero" json:"size"`
	SourceURL   string         `pg:"source_url,notnull,use_zero" json:"source_url"`
	Available   bool           `pg:"available,notnull,use_zero" json:"available"`
	AccessToken string         `pg:"access_token,notnull,unique" json:"access_token"`
	OwnerID     int            `pg:"owner_id,notnull" json:"owner_id"`
	Public      bool           `pg:"public,notnull,use_zero" json:"public"`
	Meta        map[string]any `pg:"meta,type:jsonb" json:"meta,omitempty"`
	Hash        string         `pg:"hash,notnull,use_zero" json:"hash"`
	CreatedAt   time.Time      `pg:"created_at,notnull,default:now()" json:"created_at"`
}

func (s *File) String() string {
	return fmt.Sprintf("<File #%d | %s | %q>", s.ID, s.Type, s.Path)
}

func GenerateFileToken() string {
	return uniuri.NewLen(TokenLength)
}

// TokenIsCorrect reports whether token is exactly TokenLength ASCII letters or digits.
func TokenIsCorrect(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		ch := token[i]
		if !(ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
			return false
		}
	}
	return true
}

// URL returns the address the file is served from or an empty string
// when the file can't be served yet.
func (s *File) URL(st *common.Settings) string {
	if s.Public {
		if s.SourceURL != "" {
			return s.SourceURL
		}
		if u := s.StorageURL(st); u != "" {
			return u
		}
	}
	if !s.Available {
		return ""
	}
	var p string
	switch s.Type {
	case FileTypeRSS:
		p = fmt.Sprintf("/r/%s/", s.AccessToken)
	default:
		p = fmt.Sprintf("/m/%s/", s.AccessToken)
	}
	return joinURL(st.ServiceURL, p)
}

// StorageURL returns the public storage address of the file, empty when
// public storage is not configured.
func (s *File) StorageURL(st *common.Settings) string {
	if st.StorageURL == "" || s.Path == "" {
		return ""
	}
	return joinURL(st.StorageURL, fmt.Sprintf("%s/%s", st.StorageBucket, s.Path))
}

func joinURL(base string, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

func (s *File) Name() string {
	if s.Path == "" {
		return ""
	}
	return path.Base(s.Path)
}

func (s *File) ContentType() string {
	name := s.Name()
	ext := name[strings.LastIndex(name, ".")+1:]
	return fmt.Sprintf("%s/%s", strings.ToLower(string(s.Type)), ext)
}

func (s *File) Headers() map[string]string {
	return map[string]string{
		"content-length": strconv.FormatInt(s.Size, 10),
		"content-type":   s.ContentType(),
	}
}

func GetFile(ctx context.Context, db pg.DBI, id int) (*File, error) {
	f := &File{}
	err := db.Model(f).
		Context(ctx).
		Where("file.id = ?", id).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get file %d", id)
	}
	return f, nil
}

func GetFileByAccessToken(ctx context.Context, db pg.DBI, token string) (*File, error) {
	f := &File{}
	err := db.Model(f).
		Context(ctx).
		Where("file.access_token = ?", token).
		Limit(1).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get file by access token")
	}
	return f, nil
}

func GetFilesByOwner(ctx context.Context, db pg.DBI, ownerID int) ([]*File, error) {
	var files []*File
	err := db.Model(&files).
		Context(ctx).
		Where("file.owner_id = ?", ownerID).
		OrderExpr("file.id ASC").
		Select()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list files")
	}
	return files, nil
}

// CreateFile inserts f, generating an access token when it has none.
func CreateFile(ctx context.Context, db pg.DBI, f *File) error {
	if f.AccessToken == "" {
		f.AccessToken = GenerateFileToken()
	}
	if !TokenIsCorrect(f.AccessToken) {
		return errors.Errorf("wrong access token format for %v", f)
	}
	_, err := db.Model(f).
		Context(ctx).
		Returning("*").
		Insert()
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	return nil
}

func UpdateFile(ctx context.Context, db pg.DBI, f *File) error {
	if !TokenIsCorrect(f.AccessToken) {
		return errors.Errorf("wrong access token format for %v", f)
	}
	_, err := db.Model(f).
		Context(ctx).
		WherePK().
		Update()
	if err != nil {
		return errors.Wrapf(err, "failed to update file %d", f.ID)
	}
	return nil
}
