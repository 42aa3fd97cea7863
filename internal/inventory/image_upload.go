package inventory

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 2 * 1024 * 1024 // 2MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SaveProductImage: yüklenen ürün fotoğrafını diske kaydeder.
// Dosya adı uuid'den üretilir, dönen değer statik sunumda kullanılan
// relatif path'tir (ör: /product-images/3f2a....jpg).
func SaveProductImage(c *fiber.Ctx, file *multipart.FileHeader, savePath string) (string, error) {
	if file.Size > maxImageSize {
		return "", fiber.NewError(fiber.StatusBadRequest, "Fotoğraf en fazla 2MB olabilir")
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fiber.NewError(fiber.StatusBadRequest, "Desteklenmeyen dosya tipi (jpeg/png/webp)")
	}

	if err := os.MkdirAll(savePath, 0o755); err != nil {
		return "", fmt.Errorf("fotoğraf klasörü oluşturulamadı: %w", err)
	}

	fileName := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(savePath, fileName)); err != nil {
		return "", fmt.Errorf("fotoğraf kaydedilemedi: %w", err)
	}

	return "/product-images/" + fileName, nil
}

// RemoveProductImage: eski fotoğrafı diskten siler. Dosya yoksa sessizce geçer.
func RemoveProductImage(imagePath, savePath string) {
	if imagePath == "" {
		return
	}
	fileName := strings.TrimPrefix(imagePath, "/product-images/")
	// path traversal'a izin verme
	if fileName == "" || strings.Contains(fileName, "/") || strings.Contains(fileName, "..") {
		return
	}
	_ = os.Remove(filepath.Join(savePath, fileName))
}
