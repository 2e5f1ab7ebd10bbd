package repository

import (
	"context"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var seededTables = []string{"auth_users", "media_files", "podcast_podcasts", "podcast_episodes"}

// Seed copies fixture rows into dst in one unit of work. Rows whose id
// already exists in dst are skipped.
func Seed(ctx context.Context, dst Repository, src *Fixtures) error {
	users, files, podcasts, episodes := src.Snapshot()
	var created int
	err := dst.InTx(ctx, func(r Repository) error {
		for _, u := range users {
			ex, err := r.Users().Get(ctx, u.ID)
			if err != nil {
				return err
			}
			if ex != nil {
				continue
			}
			if err := r.Users().Create(ctx, u); err != nil {
				return err
			}
			created++
		}
		for _, f := range files {
			ex, err := r.Files().Get(ctx, f.ID)
			if err != nil {
				return err
			}
			if ex != nil {
				continue
			}
			if err := r.Files().Create(ctx, f); err != nil {
				return err
			}
			created++
		}
		for _, p := range podcasts {
			ex, err := r.Podcasts().Get(ctx, p.ID)
			if err != nil {
				return err
			}
			if ex != nil {
				continue
			}
			if err := r.Podcasts().Create(ctx, p); err != nil {
				return err
			}
			created++
		}
		for _, e := range episodes {
			ex, err := r.Episodes().Get(ctx, e.ID)
			if err != nil {
				return err
			}
			if ex != nil {
				continue
			}
			if err := r.Episodes().Create(ctx, e); err != nil {
				return err
			}
			created++
		}
		if p, ok := r.(*PG); ok {
			return p.syncSequences(ctx)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to seed fixtures")
	}
	log.WithField("created", created).Info("fixtures seeded")
	return nil
}

// syncSequences moves id sequences past rows inserted with explicit ids.
func (s *PG) syncSequences(ctx context.Context) error {
	for _, t := range seededTables {
		_, err := s.db.ExecContext(ctx,
			"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE(MAX(id), 1)) FROM ?",
			t, pg.Ident(t))
		if err != nil {
			return errors.Wrapf(err, "failed to sync %s id sequence", t)
		}
	}
	return nil
}
