package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Certificador identifies the certifying institution printed on every
// certificate: id, display name and base64-encoded logo.
type Certificador struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Logo   string `json:"logo"`
}

// defaultCertificador is served when the asset object cannot be fetched.
// The logo stays empty; renderers treat an empty logo as "no image".
var defaultCertificador = Certificador{
	ID:     "tesoreria",
	Nombre: "Tesorería General de la República de Chile",
}

type AssetsConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string

	// object key of the certifier JSON block
	CertificadorKey string
}

// AssetsClient reads static certificate assets from the blob store. The
// certifier block never changes at runtime, so the first successful fetch
// is memoized for the life of the process.
type AssetsClient struct {
	raw    *minio.Client
	bucket string
	key    string

	once sync.Once
	cert Certificador
}

func NewAssetsClient(cfg AssetsConfig) (*AssetsClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create assets client: %w", err)
	}

	return &AssetsClient{
		raw:    client,
		bucket: cfg.Bucket,
		key:    cfg.CertificadorKey,
	}, nil
}

// Certificador returns the certifier block, falling back to the embedded
// default when the object is missing or unreadable.
func (c *AssetsClient) Certificador(ctx context.Context) Certificador {
	c.once.Do(func() {
		cert, err := c.fetch(ctx)
		if err != nil {
			log.Printf("[assets] certificador %q: %v", c.key, err)
			c.cert = defaultCertificador
			return
		}
		c.cert = cert
	})
	return c.cert
}

func (c *AssetsClient) fetch(ctx context.Context) (Certificador, error) {
	obj, err := c.raw.GetObject(ctx, c.bucket, c.key, minio.GetObjectOptions{})
	if err != nil {
		return Certificador{}, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return Certificador{}, fmt.Errorf("read object: %w", err)
	}

	var cert Certificador
	if err := json.Unmarshal(raw, &cert); err != nil {
		return Certificador{}, fmt.Errorf("decode object: %w", err)
	}
	if cert.ID == "" {
		cert.ID = defaultCertificador.ID
	}
	if cert.Nombre == "" {
		cert.Nombre = defaultCertificador.Nombre
	}
	return cert, nil
}
