package publish

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/eca-cli/internal/model"
)

// LatestKey is the object name that always holds the newest payload.
const LatestKey = "latest.json"

// ObjectPutter is the subset of the S3 client used by S3.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads the payload as <prefix>/<run-id>.json and <prefix>/latest.json.
type S3 struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3 wraps an existing client.
func NewS3(client ObjectPutter, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// NewS3FromConfig builds an S3 publisher from the default AWS credential chain.
func NewS3FromConfig(ctx context.Context, bucket, region, prefix string) (*S3, error) {
	if bucket == "" {
		return nil, eris.New("publish: s3 bucket is required")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "publish: load aws config")
	}
	return NewS3(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (p *S3) Name() string { return "s3://" + p.bucket + "/" + p.prefix }

// Keys returns the object keys written for a run.
func (p *S3) Keys(runID string) []string {
	return []string{path.Join(p.prefix, runID+".json"), path.Join(p.prefix, LatestKey)}
}

func (p *S3) Publish(ctx context.Context, runID string, payload *model.Payload) error {
	if runID == "" {
		return eris.New("publish: s3 needs a run id")
	}
	data, err := Encode(payload, "")
	if err != nil {
		return err
	}

	for _, key := range p.Keys(runID) {
		_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(p.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(data),
			ContentType:  aws.String("application/json"),
			CacheControl: aws.String("public, max-age=300"),
			Metadata: map[string]string{
				"run-id": runID,
				"term":   payload.Meta.Term,
			},
		})
		if err != nil {
			return eris.Wrapf(err, "publish: put s3://%s/%s", p.bucket, key)
		}
	}
	return nil
}
