package Controllers

import (
	"os"
	"path/filepath"
	"sort"

	"TapirTwins/Storage"

	"github.com/gofiber/fiber/v2"
)

type ImageInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"`
	URL      string `json:"url"`
}

// ListImages lists every stored evidence image, newest first
func ListImages(c *fiber.Ctx) error {
	dir := Storage.ImagesDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(fiber.Map{"count": 0, "images": []ImageInfo{}})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	images := make([]ImageInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, ImageInfo{
			Filename: entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().Unix(),
			URL:      c.BaseURL() + "/api/images/" + entry.Name(),
		})
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Modified > images[j].Modified
	})

	return c.JSON(fiber.Map{
		"count":  len(images),
		"images": images,
	})
}

// GetImage serves a single stored image by filename
func GetImage(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))

	path := filepath.Join(Storage.ImagesDir(), filename)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Image not found"})
	}

	return c.SendFile(path, true)
}
