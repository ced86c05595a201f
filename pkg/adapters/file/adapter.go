// Package file реализует адаптер хранения в файловой системе.
//
// Раскладка на диске:
//
//	<root>/<collection>/<id>.json      - документ записи
//	<root>/<collection>/<id>.json.zst  - документ при расширении "zstd"
//	<root>/<collection>/<id>.sum       - контрольная сумма при расширении "checksum"
//	<root>/<collection>/__seq          - счетчик идентификаторов
package file

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/adapters/base"
	"github.com/DealGrocer/model/pkg/mapping"
)

// Расширения, которые понимает адаптер
const (
	// ExtensionZstd - сжимать документы zstd-ом
	ExtensionZstd = "zstd"

	// ExtensionChecksum - хранить xxh3 сумму рядом с документом
	// и сверять ее при каждом чтении
	ExtensionChecksum = "checksum"
)

const (
	recordExt = ".json"
	zstdExt   = ".zst"
	sumExt    = ".sum"
	seqFile   = "__seq"
)

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальном реестре
func init() {
	adapters.Register(adapters.ModuleNameFor("file"), adapters.ClassNameFor("file"), New)
}

// Adapter хранит записи коллекций в директориях на диске
type Adapter struct {
	root   string
	mapper *mapping.Mapper
	zstdOn bool
	sumOn  bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu     sync.Mutex // сериализует счетчик идентификаторов и флаг closed
	closed bool
}

// New создает file адаптер
// URI задает корневую директорию: "file:///var/lib/app/data";
// директории корня и коллекций создаются при необходимости
func New(ctx context.Context, m *mapping.Mapper, uri string, opts adapters.Options) (adapters.Adapter, error) {
	root, err := rootDir(uri)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create root directory: %w", err)
	}

	a := &Adapter{
		root:   root,
		mapper: m,
		zstdOn: opts.HasExtension(ExtensionZstd),
		sumOn:  opts.HasExtension(ExtensionChecksum),
	}

	if a.zstdOn {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			encoder.Close()
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		a.encoder, a.decoder = encoder, decoder
	}

	for _, c := range m.Collections() {
		if err := os.MkdirAll(filepath.Join(root, c.Name), 0o755); err != nil {
			return nil, fmt.Errorf("create collection directory %s: %w", c.Name, err)
		}
	}
	return a, nil
}

// rootDir извлекает путь корневой директории из URI:
//
//	"file:///var/lib/app/data" -> "/var/lib/app/data"
//	"file://data"              -> "data"
//	"/var/lib/app/data"        -> "/var/lib/app/data"
func rootDir(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri: %w", err)
	}
	root := u.Host + u.Path
	if u.Opaque != "" {
		root = u.Opaque
	}
	if root == "" {
		return "", fmt.Errorf("file uri %q has no directory path", uri)
	}
	return root, nil
}

// Kind возвращает тип адаптера
func (a *Adapter) Kind() string {
	return "file"
}

// Ping проверяет, что корневая директория существует
func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return adapters.ErrNotConnected
	}

	info, err := os.Stat(a.root)
	if err != nil {
		return fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %q is not a directory", a.root)
	}
	return nil
}

// Close освобождает ресурсы сжатия
func (a *Adapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	if a.encoder != nil {
		if err := a.encoder.Close(); err != nil {
			return fmt.Errorf("close zstd encoder: %w", err)
		}
	}
	if a.decoder != nil {
		a.decoder.Close()
	}
	return nil
}

// Create сохраняет запись под следующим идентификатором из счетчика
func (a *Adapter) Create(ctx context.Context, collection string, rec mapping.Record) (mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}
	idField := c.IdentityField()

	id, err := a.nextID(collection)
	if err != nil {
		return nil, err
	}

	payload, err := base.EncodeRecord(rec, idField)
	if err != nil {
		return nil, err
	}
	if err := a.writeRecord(collection, id, payload); err != nil {
		return nil, err
	}

	stored := rec.Clone()
	stored[idField] = id
	return stored, nil
}

// Update заменяет документ существующей записи
func (a *Adapter) Update(ctx context.Context, collection string, rec mapping.Record) error {
	c, err := a.collection(collection)
	if err != nil {
		return err
	}
	idField := c.IdentityField()

	id, ok := base.Int64ID(rec[idField])
	if !ok {
		return fmt.Errorf("update %s: record has no usable %q value", collection, idField)
	}

	if _, err := os.Stat(a.recordPath(collection, id)); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, id)
	} else if err != nil {
		return fmt.Errorf("stat record file: %w", err)
	}

	payload, err := base.EncodeRecord(rec, idField)
	if err != nil {
		return err
	}
	return a.writeRecord(collection, id, payload)
}

// Delete удаляет файлы записи
func (a *Adapter) Delete(ctx context.Context, collection string, id any) error {
	if _, err := a.collection(collection); err != nil {
		return err
	}

	key, ok := base.Int64ID(id)
	if !ok {
		return fmt.Errorf("%w: %s[%v]", adapters.ErrRecordNotFound, collection, id)
	}

	err := os.Remove(a.recordPath(collection, key))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, key)
	}
	if err != nil {
		return fmt.Errorf("remove record file: %w", err)
	}

	if a.sumOn {
		os.Remove(a.sumPath(collection, key))
	}
	return nil
}

// Find возвращает запись по идентификатору
func (a *Adapter) Find(ctx context.Context, collection string, id any) (mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}

	key, ok := base.Int64ID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s[%v]", adapters.ErrRecordNotFound, collection, id)
	}

	payload, err := a.readRecord(collection, key)
	if err != nil {
		return nil, err
	}
	return base.DecodeRecord(payload, c.IdentityField(), key)
}

// All возвращает все записи коллекции в порядке возрастания идентификатора
func (a *Adapter) All(ctx context.Context, collection string) ([]mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}

	ids, err := a.recordIDs(collection)
	if err != nil {
		return nil, err
	}

	records := make([]mapping.Record, 0, len(ids))
	for _, id := range ids {
		payload, err := a.readRecord(collection, id)
		if err != nil {
			return nil, err
		}
		rec, err := base.DecodeRecord(payload, c.IdentityField(), id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Clear удаляет файлы записей коллекции, счетчик идентификаторов сохраняется
func (a *Adapter) Clear(ctx context.Context, collection string) error {
	if _, err := a.collection(collection); err != nil {
		return err
	}

	dir := filepath.Join(a.root, collection)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read collection directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == seqFile {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// nextID выдает следующий идентификатор из счетчика коллекции
func (a *Adapter) nextID(collection string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	seqPath := filepath.Join(a.root, collection, seqFile)

	var current int64
	data, err := os.ReadFile(seqPath)
	switch {
	case err == nil:
		current, err = strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse sequence file %s: %w", seqPath, err)
		}
	case os.IsNotExist(err):
		current = 0
	default:
		return 0, fmt.Errorf("read sequence file: %w", err)
	}

	next := current + 1
	if err := os.WriteFile(seqPath, []byte(strconv.FormatInt(next, 10)), 0o644); err != nil {
		return 0, fmt.Errorf("write sequence file: %w", err)
	}
	return next, nil
}

// writeRecord пишет документ записи (и контрольную сумму, если включена)
// Сумма считается по байтам файла, после сжатия
func (a *Adapter) writeRecord(collection string, id int64, payload []byte) error {
	body := payload
	if a.zstdOn {
		body = a.encoder.EncodeAll(payload, nil)
	}

	if err := os.WriteFile(a.recordPath(collection, id), body, 0o644); err != nil {
		return fmt.Errorf("write record file: %w", err)
	}

	if a.sumOn {
		if err := os.WriteFile(a.sumPath(collection, id), []byte(checksum(body)), 0o644); err != nil {
			return fmt.Errorf("write checksum file: %w", err)
		}
	}
	return nil
}

// readRecord читает документ записи, сверяет сумму и распаковывает
func (a *Adapter) readRecord(collection string, id int64) ([]byte, error) {
	body, err := os.ReadFile(a.recordPath(collection, id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}

	if a.sumOn {
		expected, err := os.ReadFile(a.sumPath(collection, id))
		if err != nil {
			return nil, fmt.Errorf("read checksum file: %w", err)
		}
		want := strings.TrimSpace(string(expected))
		if actual := checksum(body); actual != want {
			return nil, fmt.Errorf("checksum mismatch for %s[%d]: expected %s, got %s (data corruption detected)",
				collection, id, want, actual)
		}
	}

	if a.zstdOn {
		payload, err := a.decoder.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress record: %w", err)
		}
		return payload, nil
	}
	return body, nil
}

// recordIDs собирает отсортированные идентификаторы записей коллекции
func (a *Adapter) recordIDs(collection string) ([]int64, error) {
	entries, err := os.ReadDir(filepath.Join(a.root, collection))
	if err != nil {
		return nil, fmt.Errorf("read collection directory: %w", err)
	}

	suffix := a.recordSuffix()
	var ids []int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, suffix), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// recordSuffix возвращает суффикс файлов записей с учетом сжатия
func (a *Adapter) recordSuffix() string {
	if a.zstdOn {
		return recordExt + zstdExt
	}
	return recordExt
}

// recordPath возвращает путь файла записи
func (a *Adapter) recordPath(collection string, id int64) string {
	return filepath.Join(a.root, collection, strconv.FormatInt(id, 10)+a.recordSuffix())
}

// sumPath возвращает путь файла контрольной суммы
func (a *Adapter) sumPath(collection string, id int64) string {
	return filepath.Join(a.root, collection, strconv.FormatInt(id, 10)+sumExt)
}

// checksum возвращает hex представление xxh3 хеша данных
func checksum(data []byte) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxh3.Hash(data))
	return hex.EncodeToString(buf[:])
}

// collection сверяет имя коллекции с реестром и состояние адаптера
func (a *Adapter) collection(name string) (mapping.Collection, error) {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return mapping.Collection{}, adapters.ErrNotConnected
	}

	c, ok := a.mapper.Collection(name)
	if !ok {
		return mapping.Collection{}, fmt.Errorf("%w: %s", adapters.ErrUnknownCollection, name)
	}
	return c, nil
}
