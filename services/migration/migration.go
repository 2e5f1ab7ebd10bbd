package migration

import (
	"github.com/go-pg/migrations/v8"
	"github.com/go-pg/pg/v10"
	log "github.com/sirupsen/logrus"
	cs "github.com/webtor-io/common-services"

	"github.com/podcast-io/web-ui/services"
)

const defaultDir = "migrations"

type PGMigration struct {
	db  *cs.PG
	col *migrations.Collection
	dir string
}

func NewPGMigration(db *cs.PG, col *migrations.Collection) *PGMigration {
	return &PGMigration{
		db:  db,
		col: col,
		dir: defaultDir,
	}
}

// WithDir sets the directory with sql migrations.
func (s *PGMigration) WithDir(dir string) *PGMigration {
	s.dir = dir
	return s
}

// Run applies command a (up, down, reset, version, set_version) to the
// database. Without a database it does nothing so the fixture backend can
// serve instead.
func (s *PGMigration) Run(a ...string) error {
	var db *pg.DB
	if s.db != nil {
		db = s.db.Get()
	}
	if db == nil {
		log.Info("DB not initialized, skipping migration")
		return nil
	}
	if err := s.col.DiscoverSQLMigrations(s.dir); err != nil {
		return services.NewStartupError(err, "failed to discover migrations in %s", s.dir)
	}
	if _, _, err := s.col.Run(db, "init"); err != nil {
		return services.NewStartupError(err, "failed to init migrations table")
	}
	oldVersion, newVersion, err := s.col.Run(db, a...)
	if err != nil {
		return services.NewStartupError(err, "failed to migrate from version %d to %d", oldVersion, newVersion)
	}
	l := log.WithField("command", a)
	if newVersion != oldVersion {
		l.Infof("DB migrated from version %d to %d", oldVersion, newVersion)
	} else {
		l.Infof("DB migration version is %d", oldVersion)
	}
	return nil
}
