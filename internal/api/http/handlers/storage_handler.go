package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/storage"
)

// StorageHandler serves stored objects publicly.
type StorageHandler struct {
	store *storage.ObjectStore
}

// NewStorageHandler constructs handler.
func NewStorageHandler(store *storage.ObjectStore) *StorageHandler {
	return &StorageHandler{store: store}
}

// Get handles GET /storage/:bucket/*.
func (h *StorageHandler) Get(c *fiber.Ctx) error {
	obj, err := h.store.Download(c.UserContext(), c.Params("bucket"), c.Params("*"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(obj.Data)))
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(obj.Data)
}
