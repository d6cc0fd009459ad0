package s3

import (
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// Presigner hands out time-limited GET URLs for media objects.
type Presigner struct {
	bucket string
	ttl    time.Duration
	client *awss3.S3
}

func NewPresigner(bucket, region string, ttl time.Duration, cfgs ...*aws.Config) (*Presigner, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	cfg := aws.NewConfig().WithRegion(region)
	cfg.MergeIn(cfgs...)
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "aws session")
	}
	return &Presigner{bucket: bucket, ttl: ttl, client: awss3.New(sess)}, nil
}

// URL presigns a GET for key. Leading slashes are dropped so "/a.mp4" and
// "a.mp4" name the same object.
func (p *Presigner) URL(key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", errors.New("empty object key")
	}
	req, _ := p.client.GetObjectRequest(&awss3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	u, err := req.Presign(p.ttl)
	if err != nil {
		return "", errors.Wrapf(err, "presign %s", key)
	}
	return u, nil
}
