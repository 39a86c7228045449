package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"novacuts/metrics"
	"novacuts/models"
	"novacuts/services/reply"
	"novacuts/utils"
)

// Extractor reads an Intent from lower-cased message text.
type Extractor interface {
	Extract(text string, ref time.Time) (models.Intent, error)
}

// Booker books the appointment an Intent describes.
type Booker interface {
	Book(ctx context.Context, phone string, in models.Intent) (*models.Confirmation, error)
}

// SMSHandler answers Twilio's inbound message webhook.
type SMSHandler struct {
	extractor Extractor
	booker    Booker
	replies   reply.Formatter
	// now supplies the reference time relative dates are resolved against.
	now func() time.Time
}

func NewSMSHandler(extractor Extractor, booker Booker, replies reply.Formatter, now func() time.Time) *SMSHandler {
	if now == nil {
		now = time.Now
	}
	return &SMSHandler{
		extractor: extractor,
		booker:    booker,
		replies:   replies,
		now:       now,
	}
}

// InboundSMSHandler parses the message, books when a time was found, and
// always answers with exactly one TwiML message.
func (h *SMSHandler) InboundSMSHandler(c *gin.Context) {
	logger := getLogger(c)

	var msg models.InboundMessage
	if err := c.ShouldBind(&msg); err != nil {
		h.respond(c, logger, nil, fmt.Errorf("read message: %w", err))
		return
	}
	logger = logger.With(zap.String("from", msg.From))

	text := strings.ToLower(strings.TrimSpace(msg.Body))
	in, err := h.extractor.Extract(text, h.now())
	if err != nil {
		h.respond(c, logger, nil, err)
		return
	}

	conf, err := h.booker.Book(c.Request.Context(), msg.From, in)
	h.respond(c, logger, conf, err)
}

func (h *SMSHandler) respond(c *gin.Context, logger *zap.Logger, conf *models.Confirmation, err error) {
	outcome := reply.Outcome(err)
	metrics.SMSRequests.WithLabelValues(outcome).Inc()

	switch outcome {
	case reply.OutcomeBooked, reply.OutcomeClarify, reply.OutcomeNoSlots:
		logger.Info("sms handled", zap.String("outcome", outcome))
	case reply.OutcomeInternal:
		logger.Error("sms failed", zap.String("outcome", outcome), zap.Error(err))
	default:
		logger.Warn("sms failed", zap.String("outcome", outcome), zap.Error(err))
	}

	c.Data(http.StatusOK, utils.XMLContentType, []byte(utils.MustRenderMessage(h.replies.Text(conf, err))))
}
