package common

import (
	"github.com/urfave/cli"
)

var (
	DomainFlag              = "domain"
	AppVersionFlag          = "app-version"
	OwnerIDFlag             = "owner-id"
	DefaultPodcastCoverFlag = "default-podcast-cover"
	DefaultEpisodeCoverFlag = "default-episode-cover"
	FilenameSaltFlag        = "filename-salt"
	SessionSecretFlag       = "secret"
	StorageURLFlag          = "storage-url"
	StorageBucketFlag       = "storage-bucket"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	f = append(f,
		cli.StringFlag{
			Name:   DomainFlag,
			Usage:  "public service url",
			Value:  "http://localhost:8080",
			EnvVar: "DOMAIN,SERVICE_URL",
		},
		cli.StringFlag{
			Name:   AppVersionFlag,
			Usage:  "application version",
			Value:  "1.0.0",
			EnvVar: "APP_VERSION",
		},
		cli.IntFlag{
			Name:   OwnerIDFlag,
			Usage:  "id of the user whose library is shown",
			Value:  1,
			EnvVar: "OWNER_ID",
		},
		cli.StringFlag{
			Name:   DefaultPodcastCoverFlag,
			Usage:  "default podcast cover url",
			Value:  "/static/images/cover-default-podcast.svg",
			EnvVar: "DEFAULT_PODCAST_COVER",
		},
		cli.StringFlag{
			Name:   DefaultEpisodeCoverFlag,
			Usage:  "default episode cover url",
			Value:  "/static/images/cover-default-episode.svg",
			EnvVar: "DEFAULT_EPISODE_COVER",
		},
		cli.StringFlag{
			Name:   FilenameSaltFlag,
			Usage:  "salt for generated audio file names",
			Value:  "podcast",
			EnvVar: "FILENAME_SALT",
		},
		cli.StringFlag{
			Name:   SessionSecretFlag,
			Usage:  "session secret",
			Value:  "secret123",
			EnvVar: "SESSION_SECRET,APP_SECRET_KEY",
		},
		cli.StringFlag{
			Name:   StorageURLFlag,
			Usage:  "public url of the s3 storage",
			EnvVar: "S3_STORAGE_URL",
		},
		cli.StringFlag{
			Name:   StorageBucketFlag,
			Usage:  "s3 bucket name",
			Value:  "podcast",
			EnvVar: "S3_BUCKET_NAME",
		},
	)

	return f
}

// Settings is built once at start and passed to everything that needs it.
type Settings struct {
	ServiceURL          string
	AppVersion          string
	OwnerID             int
	DefaultPodcastCover string
	DefaultEpisodeCover string
	FilenameSalt        string
	SessionSecret       string
	StorageURL          string
	StorageBucket       string
}

func NewSettings(c *cli.Context) *Settings {
	return &Settings{
		ServiceURL:          c.String(DomainFlag),
		AppVersion:          c.String(AppVersionFlag),
		OwnerID:             c.Int(OwnerIDFlag),
		DefaultPodcastCover: c.String(DefaultPodcastCoverFlag),
		DefaultEpisodeCover: c.String(DefaultEpisodeCoverFlag),
		FilenameSalt:        c.String(FilenameSaltFlag),
		SessionSecret:       c.String(SessionSecretFlag),
		StorageURL:          c.String(StorageURLFlag),
		StorageBucket:       c.String(StorageBucketFlag),
	}
}

// AccessTokenParamName is the route param carrying a file access token.
const AccessTokenParamName = "token"

var AnyMethods = []string{"GET", "HEAD", "OPTIONS"}
