package migrations

import (
	"github.com/go-pg/migrations/v8"
	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services/storage"
)

// PopulateAudioFileSizes fills sizes of available audio files that were
// stored before the size was tracked.
func PopulateAudioFileSizes(col *migrations.Collection, st *storage.Storage) {
	col.MustRegisterTx(func(db migrations.DB) error {
		if st == nil {
			log.Info("storage is not configured, skipping audio file sizes")
			return nil
		}
		ctx := db.Context()
		var files []*models.File

		err := db.Model(&files).
			Where("type = ?", models.FileTypeAudio).
			Where("available").
			Where("size = 0").
			Select()
		if err != nil {
			return err
		}
		for _, f := range files {
			size, err := st.Size(ctx, f.Path)
			if err != nil {
				log.WithError(err).WithField("file", f).Warn("failed to get audio file size")
				continue
			}
			f.Size = size
			_, err = db.Model(f).WherePK().Column("size").Update()
			if err != nil {
				return err
			}
		}
		log.Infof("populated sizes for %d audio files", len(files))
		return nil
	}, func(db migrations.DB) error {
		return nil
	})
}
