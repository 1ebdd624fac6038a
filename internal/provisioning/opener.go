// internal/provisioning/opener.go
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	httpclient "loan-risk-sim/internal/common/http"
)

// Meta describes an opened source file.
type Meta struct {
	Source      string
	ContentType string
	Size        int64
	Bucket      string
	Key         string
}

// FileOpener opens an applicant file by location.
type FileOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, Meta, error)
}

// LocalOpener reads from the local file system.
type LocalOpener struct{}

func (LocalOpener) Open(_ context.Context, location string) (io.ReadCloser, Meta, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, Meta{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Meta{}, err
	}
	return f, Meta{
		Source:      "file",
		ContentType: mime.TypeByExtension(filepath.Ext(location)),
		Size:        st.Size(),
	}, nil
}

// HTTPOpener downloads http(s) locations.
type HTTPOpener struct{ Client *httpclient.Client }

func NewHTTPOpener(cli *httpclient.Client) *HTTPOpener {
	if cli == nil {
		cli = httpclient.Wrap(nil)
	}
	return &HTTPOpener{Client: cli}
}

func (h *HTTPOpener) Open(ctx context.Context, location string) (io.ReadCloser, Meta, error) {
	resp, err := h.Client.Get(ctx, location)
	if err != nil {
		return nil, Meta{}, err
	}
	size := resp.ContentLength
	if size < 0 {
		size = -1
	}
	return resp.Body, Meta{
		Source:      "https",
		ContentType: resp.Header.Get("Content-Type"),
		Size:        size,
	}, nil
}

// S3API is the subset of *minio.Client the S3 opener needs.
type S3API interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

type S3Opener struct {
	Client        S3API
	DefaultBucket string
}

func NewS3Opener(cli S3API, defaultBucket string) *S3Opener {
	return &S3Opener{Client: cli, DefaultBucket: defaultBucket}
}

// Open accepts s3://bucket/key or a bare key in the default bucket.
func (s *S3Opener) Open(ctx context.Context, location string) (io.ReadCloser, Meta, error) {
	bucket, key := s.DefaultBucket, strings.TrimPrefix(location, "/")
	if strings.HasPrefix(location, "s3://") {
		var err error
		bucket, key, err = parseS3URL(location)
		if err != nil {
			return nil, Meta{}, err
		}
	}
	if bucket == "" {
		return nil, Meta{}, errors.New("missing bucket: pass s3://bucket/key")
	}

	st, err := s.Client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, Meta{}, fmt.Errorf("s3 stat: %w", err)
	}
	obj, err := s.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, Meta{}, fmt.Errorf("s3 get: %w", err)
	}
	return obj, Meta{
		Source:      "s3",
		ContentType: st.ContentType,
		Size:        st.Size,
		Bucket:      bucket,
		Key:         key,
	}, nil
}

// CompoundOpener dispatches on the location scheme.
type CompoundOpener struct {
	Local FileOpener
	HTTP  FileOpener
	S3    FileOpener
}

func NewCompoundOpener(httpOp, s3Op FileOpener) *CompoundOpener {
	return &CompoundOpener{Local: LocalOpener{}, HTTP: httpOp, S3: s3Op}
}

func (c *CompoundOpener) Open(ctx context.Context, location string) (io.ReadCloser, Meta, error) {
	loc := strings.TrimSpace(location)

	switch {
	case strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://"):
		if c.HTTP == nil {
			return nil, Meta{}, errors.New("http opener not configured")
		}
		return c.HTTP.Open(ctx, loc)

	case strings.HasPrefix(loc, "s3://"):
		if c.S3 == nil {
			return nil, Meta{}, errors.New("s3 opener not configured")
		}
		return c.S3.Open(ctx, loc)

	default:
		if c.Local == nil {
			return nil, Meta{}, errors.New("local opener not configured")
		}
		return c.Local.Open(ctx, loc)
	}
}

func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", errors.New("scheme must be s3")
	}
	bucket = u.Host
	key = path.Clean(strings.TrimPrefix(u.Path, "/"))
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", errors.New("empty bucket or key")
	}
	return bucket, key, nil
}
