package qrcode

import (
	"encoding/base64"
	"fmt"

	apperrors "go-gin-ticket-scanner/pkg/app_errors"

	goqrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 200

// Renderer 將票券代號重新產生為 QR 圖片
type Renderer struct {
	size  int
	level goqrcode.RecoveryLevel
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size, level: goqrcode.Medium}
}

// PNG 回傳 content 的 QR PNG 圖檔
func (r *Renderer) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, apperrors.ErrInvalidInput
	}
	png, err := goqrcode.Encode(content, r.level, r.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// Base64PNG 回傳 base64 編碼的 PNG，供 JSON 響應直接內嵌
func (r *Renderer) Base64PNG(content string) (string, error) {
	png, err := r.PNG(content)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func (r *Renderer) Size() int {
	return r.size
}
