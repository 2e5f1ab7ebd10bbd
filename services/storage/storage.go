package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"
	"github.com/webtor-io/lazymap"

	"github.com/podcast-io/web-ui/services/common"
)

const (
	linkExpireFlag      = "storage-link-expire"
	linkCacheExpireFlag = "storage-link-cache-expire"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.DurationFlag{
			Name:   linkExpireFlag,
			Usage:  "presigned link lifetime",
			Value:  10 * time.Minute,
			EnvVar: "S3_LINK_EXPIRES_IN",
		},
		cli.DurationFlag{
			Name:   linkCacheExpireFlag,
			Usage:  "presigned link cache expiration time, must be shorter than link lifetime",
			Value:  2 * time.Minute,
			EnvVar: "S3_LINK_CACHE_EXPIRES_IN",
		},
	)
}

type Presigner interface {
	PresignedURL(ctx context.Context, key string) (string, error)
}

type Storage struct {
	cl     *s3.S3
	bucket string
	expire time.Duration
	links  *lazymap.LazyMap[string]
}

// New returns nil when S3 is not configured.
func New(c *cli.Context, cl *cs.S3Client, st *common.Settings) (*Storage, error) {
	if cl == nil || cl.Get() == nil {
		return nil, nil
	}
	expire := c.Duration(linkExpireFlag)
	cacheExpire := c.Duration(linkCacheExpireFlag)
	if cacheExpire >= expire {
		return nil, errors.Errorf("%s must be shorter than %s", linkCacheExpireFlag, linkExpireFlag)
	}
	return &Storage{
		cl:     cl.Get(),
		bucket: st.StorageBucket,
		expire: expire,
		links: lazymap.New[string](&lazymap.Config{
			Expire:      cacheExpire,
			ErrorExpire: 10 * time.Second,
		}),
	}, nil
}

// PresignedURL returns a temporary GET link for the object stored under key.
func (s *Storage) PresignedURL(ctx context.Context, key string) (string, error) {
	return s.links.Get(key, func() (string, error) {
		req, _ := s.cl.GetObjectRequest(&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		req.SetContext(ctx)
		u, err := req.Presign(s.expire)
		if err != nil {
			return "", errors.Wrapf(err, "failed to presign %s", key)
		}
		return u, nil
	})
}

// Size returns the stored object size in bytes.
func (s *Storage) Size(ctx context.Context, key string) (int64, error) {
	out, err := s.cl.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get head of %s", key)
	}
	return aws.Int64Value(out.ContentLength), nil
}
