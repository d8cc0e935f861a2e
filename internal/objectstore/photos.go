// Package objectstore хранит фото профилей в S3-совместимом хранилище.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"

	// Регистрация декодеров для image.Decode.
	_ "image/gif"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"

	"github.com/magabrotheeeer/atom-backoffice/internal/config"
)

// ErrInvalidImage файл не удалось декодировать как изображение.
var ErrInvalidImage = errors.New("invalid image")

// Putter загрузка объекта; реализуется *s3.Client.
type Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store загружает фото профилей.
type Store struct {
	client    Putter
	bucket    string
	maxPixels int
	log       *slog.Logger
}

// New создаёт клиента S3 по настройкам.
func New(ctx context.Context, cfg config.ObjectStorage, log *slog.Logger) (*Store, error) {
	const op = "objectstore.New"

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.PhotoMaxPixels, log), nil
}

// NewWithClient собирает Store поверх готового клиента.
func NewWithClient(client Putter, bucket string, maxPixels int, log *slog.Logger) *Store {
	if maxPixels <= 0 {
		maxPixels = 800
	}
	return &Store{client: client, bucket: bucket, maxPixels: maxPixels, log: log}
}

// PhotoKey ключ объекта фото профиля.
func PhotoKey(userID string) string {
	return fmt.Sprintf("profiles/%s/id-photo.jpg", userID)
}

// Normalize декодирует изображение, уменьшает его по длинной стороне и кодирует в JPEG.
func Normalize(r io.Reader, maxPixels int) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	switch {
	case b.Dx() >= b.Dy() && b.Dx() > maxPixels:
		img = imaging.Resize(img, maxPixels, 0, imaging.Lanczos)
	case b.Dy() > b.Dx() && b.Dy() > maxPixels:
		img = imaging.Resize(img, 0, maxPixels, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadProfilePhoto нормализует фото и загружает его; возвращает ключ объекта.
func (s *Store) UploadProfilePhoto(ctx context.Context, userID string, r io.Reader) (string, error) {
	const op = "objectstore.UploadProfilePhoto"

	data, err := Normalize(r, s.maxPixels)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key := PhotoKey(userID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile photo uploaded", slog.String("key", key), slog.Int("bytes", len(data)))
	return key, nil
}
