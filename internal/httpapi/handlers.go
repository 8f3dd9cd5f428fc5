package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arloliu/ringq/logger"
	"github.com/arloliu/ringq/queue"
	"github.com/arloliu/ringq/registry"
)

// QueueLengthHeader carries the queue length on message responses.
const QueueLengthHeader = "X-Queue-Len"

type EnqueueRequest struct {
	Message string `json:"message"`
}

type CapacityRequest struct {
	Capacity *int `json:"capacity"`
}

type CopyRequest struct {
	Target string `json:"target"`
}

type ListResponse struct {
	Queues []string `json:"queues"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the queues of a registry over HTTP.
type Handler struct {
	Registry *registry.Registry
	// MaxMessageSize limits enqueued message bodies in bytes; zero means no limit.
	MaxMessageSize int64
	logger         logger.Logger
}

func NewHandler(reg *registry.Registry, l logger.Logger) *Handler {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Handler{Registry: reg, logger: l}
}

func (h *Handler) Enqueue(c echo.Context) error {
	name := c.Param("name")

	var msg []byte
	switch c.Request().Header.Get(echo.HeaderContentType) {
	case echo.MIMEOctetStream:
		body, err := h.readBody(c)
		if err != nil {
			return h.fail(c, http.StatusBadRequest, err)
		}
		msg = body
	default:
		var req EnqueueRequest
		if err := c.Bind(&req); err != nil {
			return h.fail(c, http.StatusBadRequest, errors.New("invalid request body"))
		}
		msg = []byte(req.Message)
	}

	if len(msg) == 0 {
		return h.fail(c, http.StatusBadRequest, errors.New("message is required"))
	}
	if h.MaxMessageSize > 0 && int64(len(msg)) > h.MaxMessageSize {
		return h.fail(c, http.StatusRequestEntityTooLarge, errors.New("message too large"))
	}

	if err := h.Registry.Enqueue(name, msg); err != nil {
		return h.failErr(c, err)
	}
	h.logger.Debug("message enqueued", "queue", name, "size", len(msg))

	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) readBody(c echo.Context) ([]byte, error) {
	r := io.Reader(c.Request().Body)
	if h.MaxMessageSize > 0 {
		r = io.LimitReader(r, h.MaxMessageSize+1)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("invalid request body")
	}

	return body, nil
}

// Dequeue removes the head message. Unknown and empty queues answer 204.
func (h *Handler) Dequeue(c echo.Context) error {
	name := c.Param("name")

	msg, err := h.Registry.Dequeue(name)
	if errors.Is(err, registry.ErrQueueNotFound) || errors.Is(err, queue.ErrEmptyQueue) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return h.failErr(c, err)
	}
	h.setLengthHeader(c, name)

	return c.Blob(http.StatusOK, echo.MIMEOctetStream, msg)
}

// Peek returns the head message without removing it. Unknown and empty queues answer 204.
func (h *Handler) Peek(c echo.Context) error {
	name := c.Param("name")

	msg, err := h.Registry.Peek(name)
	if errors.Is(err, registry.ErrQueueNotFound) || errors.Is(err, queue.ErrEmptyQueue) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return h.failErr(c, err)
	}
	h.setLengthHeader(c, name)

	return c.Blob(http.StatusOK, echo.MIMEOctetStream, msg)
}

func (h *Handler) setLengthHeader(c echo.Context, name string) {
	if stats, err := h.Registry.Stats(name); err == nil {
		c.Response().Header().Set(QueueLengthHeader, strconv.Itoa(stats.Length))
	}
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.Registry.Stats(c.Param("name"))
	if err != nil {
		return h.failErr(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, ListResponse{Queues: h.Registry.Names()})
}

func (h *Handler) SetCapacity(c echo.Context) error {
	name := c.Param("name")

	var req CapacityRequest
	if err := c.Bind(&req); err != nil || req.Capacity == nil {
		return h.fail(c, http.StatusBadRequest, errors.New("capacity is required"))
	}

	if err := h.Registry.SetCapacity(name, *req.Capacity); err != nil {
		return h.failErr(c, err)
	}

	return h.Stats(c)
}

func (h *Handler) Reclaim(c echo.Context) error {
	if err := h.Registry.Reclaim(c.Param("name")); err != nil {
		return h.failErr(c, err)
	}

	return h.Stats(c)
}

func (h *Handler) Copy(c echo.Context) error {
	name := c.Param("name")

	var req CopyRequest
	if err := c.Bind(&req); err != nil || req.Target == "" {
		return h.fail(c, http.StatusBadRequest, errors.New("target is required"))
	}

	if err := h.Registry.Copy(name, req.Target); err != nil {
		return h.failErr(c, err)
	}

	stats, err := h.Registry.Stats(req.Target)
	if err != nil {
		return h.failErr(c, err)
	}

	return c.JSON(http.StatusCreated, stats)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.Registry.Delete(c.Param("name")); err != nil {
		return h.failErr(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// failErr maps registry and queue errors to HTTP status codes.
func (h *Handler) failErr(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrInvalidName),
		errors.Is(err, queue.ErrInvalidCapacity):
		status = http.StatusBadRequest
	case errors.Is(err, registry.ErrQueueNotFound),
		errors.Is(err, queue.ErrQueueFreed):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrQueueExists),
		errors.Is(err, queue.ErrCapacityTooSmall):
		status = http.StatusConflict
	case errors.Is(err, queue.ErrCapacityOverflow):
		status = http.StatusInsufficientStorage
	}

	return h.fail(c, status, err)
}

func (h *Handler) fail(c echo.Context, status int, err error) error {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
	} else {
		h.logger.Warn("request rejected", "method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
	}

	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
