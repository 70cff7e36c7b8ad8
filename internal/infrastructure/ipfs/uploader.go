// Package ipfs stores files on an IPFS node encrypted with a per-user key.
package ipfs

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/pbkdf2"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

const (
	DefaultAPIBase = "https://ipfs.ecolatam.com/api"

	keySalt       = "ipfs-ecolatam-salt"
	keyIterations = 100000
	keyLen        = 32
	ivLen         = 12
)

// Config captures the settings of an Uploader.
type Config struct {
	APIBase string
	Timeout time.Duration
}

// Uploader encrypts files with AES-256-GCM and adds them to IPFS through
// the node's HTTP API.
type Uploader struct {
	http *http.Client
	base string
	log  zerolog.Logger
}

func NewUploader(cfg Config, log zerolog.Logger) *Uploader {
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = DefaultAPIBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Uploader{
		http: &http.Client{Timeout: timeout},
		base: base,
		log:  log,
	}
}

var _ ports.Uploader = (*Uploader)(nil)

// DeriveKey derives the AES key of userID.
func DeriveKey(userID int64) []byte {
	passphrase := "ecolatam-user-" + strconv.FormatInt(userID, 10)
	return pbkdf2.Key([]byte(passphrase), []byte(keySalt), keyIterations, keyLen, sha256.New)
}

// UploadEncrypted uploads files one after another and returns their CIDs
// and hex IVs in input order. The first failure aborts the batch.
func (u *Uploader) UploadEncrypted(ctx context.Context, files []ports.UploadInput, userID int64) ([]domain.EncryptedFile, error) {
	aead, err := newAEAD(DeriveKey(userID))
	if err != nil {
		return nil, err
	}

	out := make([]domain.EncryptedFile, 0, len(files))
	for _, f := range files {
		iv := make([]byte, ivLen)
		if _, err := rand.Read(iv); err != nil {
			return nil, fmt.Errorf("generate iv: %w", err)
		}
		sealed := aead.Seal(nil, iv, f.Data, nil)

		cid, err := u.add(ctx, f.Name+".enc", sealed)
		if err != nil {
			return nil, err
		}
		u.log.Debug().Str("cid", cid).Int("bytes", len(f.Data)).Msg("file added to ipfs")
		out = append(out, domain.EncryptedFile{CID: cid, IV: hex.EncodeToString(iv), Mime: f.Mime})
	}
	return out, nil
}

// Decrypt opens a payload produced by UploadEncrypted.
func Decrypt(userID int64, ivHex string, sealed []byte) ([]byte, error) {
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	aead, err := newAEAD(DeriveKey(userID))
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, fmt.Errorf("iv must be %d bytes", aead.NonceSize())
	}
	return aead.Open(nil, iv, sealed, nil)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// add posts one file to /v0/add. The node answers with JSON lines; the
// last one names the added file.
func (u *Uploader) add(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.base+"/v0/add", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		u.log.Warn().Err(err).Str("file", filename).Msg("ipfs upload failed")
		return "", fmt.Errorf("ipfs upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ipfs upload: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.log.Warn().Int("status", resp.StatusCode).Str("file", filename).Msg("ipfs upload failed")
		return "", fmt.Errorf("ipfs upload: node answered %d", resp.StatusCode)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	var added struct {
		Hash string `json:"Hash"`
	}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &added); err != nil {
		return "", fmt.Errorf("ipfs upload: %w: %v", domain.ErrUnexpectedShape, err)
	}
	if added.Hash == "" {
		return "", fmt.Errorf("ipfs upload: %w: no hash", domain.ErrUnexpectedShape)
	}
	return added.Hash, nil
}
