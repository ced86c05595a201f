// Package s3 реализует адаптер хранения в бакете S3.
//
// Раскладка ключей:
//
//	<prefix>/<collection>/<id>.json
//
// Идентификаторы записей - UUID: у бакета нет атомарного счетчика,
// поэтому последовательная нумерация здесь не используется.
//
// URI адаптера:
//
//	s3://bucket/prefix?region=us-east-1
//	s3://key:secret@bucket?endpoint=http://localhost:9000
//
// Без явных ключей доступа используется стандартная цепочка
// учетных данных AWS SDK (переменные окружения, профиль, IAM роль).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/adapters/base"
	"github.com/DealGrocer/model/pkg/mapping"
)

const recordExt = ".json"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальном реестре
func init() {
	adapters.Register(adapters.ModuleNameFor("s3"), adapters.ClassNameFor("s3"), New)
}

// API описывает подмножество операций клиента AWS S3,
// которое использует адаптер. Выделено в интерфейс для подмены в тестах
type API interface {
	HeadBucket(ctx context.Context, params *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
}

// Adapter хранит записи коллекций как объекты в бакете S3
type Adapter struct {
	client API
	bucket string
	prefix string
	mapper *mapping.Mapper
}

// target описывает разобранный URI адаптера
type target struct {
	bucket    string
	prefix    string
	region    string
	endpoint  string
	accessKey string
	secretKey string
	hasCreds  bool
}

// parseTarget разбирает URI адаптера: хост - бакет, путь - префикс ключей,
// userinfo - статические ключи доступа, region и endpoint - в query
func parseTarget(uri string) (target, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return target{}, fmt.Errorf("parse uri: %w", err)
	}
	if u.Host == "" {
		return target{}, fmt.Errorf("s3 uri %q has no bucket", uri)
	}

	t := target{
		bucket:   u.Host,
		prefix:   strings.Trim(u.Path, "/"),
		region:   u.Query().Get("region"),
		endpoint: u.Query().Get("endpoint"),
	}
	if u.User != nil {
		t.accessKey = u.User.Username()
		t.secretKey, _ = u.User.Password()
		t.hasCreds = t.accessKey != ""
	}
	return t, nil
}

// New создает s3 адаптер и проверяет доступность бакета
func New(ctx context.Context, m *mapping.Mapper, uri string, opts adapters.Options) (adapters.Adapter, error) {
	t, err := parseTarget(uri)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*config.LoadOptions) error
	if t.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(t.region))
	}
	if t.hasCreds {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(t.accessKey, t.secretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if t.endpoint != "" {
			// MinIO и localstack требуют path-style адресацию
			o.BaseEndpoint = aws.String(t.endpoint)
			o.UsePathStyle = true
		}
	})

	a := NewWithClient(m, client, t.bucket, t.prefix)
	if err := a.Ping(ctx); err != nil {
		return nil, fmt.Errorf("bucket %q is not reachable: %w", t.bucket, err)
	}
	return a, nil
}

// NewWithClient создает адаптер поверх готового клиента
// Используется в тестах и при нестандартной настройке SDK
func NewWithClient(m *mapping.Mapper, client API, bucket, prefix string) *Adapter {
	return &Adapter{
		client: client,
		bucket: bucket,
		prefix: prefix,
		mapper: m,
	}
}

// Kind возвращает тип адаптера
func (a *Adapter) Kind() string {
	return "s3"
}

// Ping проверяет доступность бакета
func (a *Adapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return adapters.ErrNotConnected
	}
	_, err := a.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	return err
}

// Close завершает работу адаптера
// Клиент S3 не держит постоянных соединений, освобождать нечего
func (a *Adapter) Close(ctx context.Context) error {
	a.client = nil
	return nil
}

// Create сохраняет запись под новым UUID
func (a *Adapter) Create(ctx context.Context, collection string, rec mapping.Record) (mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}
	idField := c.IdentityField()

	id := uuid.NewString()
	payload, err := base.EncodeRecord(rec, idField)
	if err != nil {
		return nil, err
	}
	if err := a.put(ctx, collection, id, payload); err != nil {
		return nil, err
	}

	stored := rec.Clone()
	stored[idField] = id
	return stored, nil
}

// Update заменяет объект существующей записи
func (a *Adapter) Update(ctx context.Context, collection string, rec mapping.Record) error {
	c, err := a.collection(collection)
	if err != nil {
		return err
	}
	idField := c.IdentityField()

	raw, ok := rec[idField]
	if !ok || raw == nil {
		return fmt.Errorf("update %s: record has no usable %q value", collection, idField)
	}
	id := base.IDKey(raw)

	if err := a.head(ctx, collection, id); err != nil {
		return err
	}

	payload, err := base.EncodeRecord(rec, idField)
	if err != nil {
		return err
	}
	return a.put(ctx, collection, id, payload)
}

// Delete удаляет объект записи
// DeleteObject в S3 не отличает отсутствующий ключ от удаленного,
// поэтому существование проверяется отдельным HeadObject
func (a *Adapter) Delete(ctx context.Context, collection string, id any) error {
	if _, err := a.collection(collection); err != nil {
		return err
	}
	key := base.IDKey(id)

	if err := a.head(ctx, collection, key); err != nil {
		return err
	}

	if _, err := a.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(collection, key)),
	}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Find возвращает запись по идентификатору
func (a *Adapter) Find(ctx context.Context, collection string, id any) (mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}
	return a.get(ctx, collection, c.IdentityField(), base.IDKey(id))
}

// All возвращает все записи коллекции, отсортированные по идентификатору
func (a *Adapter) All(ctx context.Context, collection string) ([]mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}

	ids, err := a.recordIDs(ctx, collection)
	if err != nil {
		return nil, err
	}

	records := make([]mapping.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := a.get(ctx, collection, c.IdentityField(), id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Clear удаляет все объекты коллекции
func (a *Adapter) Clear(ctx context.Context, collection string) error {
	if _, err := a.collection(collection); err != nil {
		return err
	}

	ids, err := a.recordIDs(ctx, collection)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := a.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(a.key(collection, id)),
		}); err != nil {
			return fmt.Errorf("delete object: %w", err)
		}
	}
	return nil
}

// put загружает документ записи в бакет
func (a *Adapter) put(ctx context.Context, collection, id string, payload []byte) error {
	_, err := a.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.key(collection, id)),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// get читает и декодирует документ записи
func (a *Adapter) get(ctx context.Context, collection, idField, id string) (mapping.Record, error) {
	out, err := a.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(collection, id)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s[%s]", adapters.ErrRecordNotFound, collection, id)
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return base.DecodeRecord(payload, idField, id)
}

// head проверяет существование записи
func (a *Adapter) head(ctx context.Context, collection, id string) error {
	_, err := a.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(collection, id)),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: %s[%s]", adapters.ErrRecordNotFound, collection, id)
		}
		return fmt.Errorf("head object: %w", err)
	}
	return nil
}

// recordIDs собирает отсортированные идентификаторы записей коллекции
func (a *Adapter) recordIDs(ctx context.Context, collection string) ([]string, error) {
	dir := a.dir(collection)

	var ids []string
	var token *string
	for {
		out, err := a.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
			Bucket:            aws.String(a.bucket),
			Prefix:            aws.String(dir),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range out.Contents {
			if obj.Key == nil {
				continue
			}
			name := strings.TrimPrefix(*obj.Key, dir)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, recordExt) {
				continue
			}
			ids = append(ids, strings.TrimSuffix(name, recordExt))
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}

	sort.Strings(ids)
	return ids, nil
}

// dir возвращает префикс ключей коллекции
func (a *Adapter) dir(collection string) string {
	if a.prefix != "" {
		return a.prefix + "/" + collection + "/"
	}
	return collection + "/"
}

// key возвращает ключ объекта записи
func (a *Adapter) key(collection, id string) string {
	return a.dir(collection) + id + recordExt
}

// collection сверяет имя коллекции с реестром
func (a *Adapter) collection(name string) (mapping.Collection, error) {
	if a.client == nil {
		return mapping.Collection{}, adapters.ErrNotConnected
	}
	c, ok := a.mapper.Collection(name)
	if !ok {
		return mapping.Collection{}, fmt.Errorf("%w: %s", adapters.ErrUnknownCollection, name)
	}
	return c, nil
}
