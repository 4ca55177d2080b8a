package callService

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"BistroGolang/internal/entity"
	contextPkg "BistroGolang/pkg/context"
	"BistroGolang/pkg/nlp"

	"github.com/sirupsen/logrus"
)

const (
	replyRepeat  = "Sorry, I didn't catch that. Could you repeat your request after the beep?"
	replyGeneric = "I can help you book a table. Tell me the date, the time and how many people are coming."
	replyAskName = "I have the details, could you also tell me your name for the reservation?"
	replyError   = "I'm sorry, something went wrong on our side. Please call again in a moment."
)

// Interpret turns one transcription into a conversation step. It never
// returns an error; failures degrade into an error action so the call flow
// can still speak to the caller.
func (i *interpreter) Interpret(ctx context.Context, session entity.CallSession, transcription string) entity.ConversationResult {
	requestID := contextPkg.GetRequestID(ctx)

	text := strings.TrimSpace(transcription)
	if text == "" {
		return entity.ConversationResult{
			Success:       true,
			Transcription: transcription,
			AIResponse:    replyRepeat,
			Action:        entity.ActionNeedRepeat,
		}
	}

	if !i.extractor.HasBookingIntent(text) {
		return entity.ConversationResult{
			Success:       true,
			Transcription: text,
			AIResponse:    replyGeneric,
			Action:        entity.ActionConversation,
		}
	}

	fields := i.extractor.Extract(text)
	reply := ""

	if i.assistant.Configured() {
		assistantReply, assistantFields, err := i.assistant.InterpretBooking(ctx, text)
		if err != nil {
			i.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"call_id":    session.CallID,
				"error":      err.Error(),
			}).Warn("Assistant interpretation failed, using extracted fields only")
		} else {
			reply = assistantReply
			if assistantFields != nil {
				fields = mergeFields(fields, *assistantFields)
			}
		}
	}

	if fields.PhoneNumber == "" {
		fields.PhoneNumber = session.CallerPhone
	}

	if i.requireName && fields.CustomerName == "" {
		return entity.ConversationResult{
			Success:       true,
			Transcription: text,
			AIResponse:    replyAskName,
			Action:        entity.ActionNeedMoreInfo,
		}
	}

	created, err := i.bookings.CreateFromFields(ctx, fields, text, entity.BookingSourcePhoneCall, session.CallID)
	if err != nil {
		i.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    session.CallID,
			"error":      err.Error(),
		}).Error("Failed to create booking from call")
		return entity.ConversationResult{
			Success:       false,
			Transcription: text,
			AIResponse:    replyError,
			Action:        entity.ActionError,
		}
	}

	// The spoken confirmation always carries the booking id, whatever the
	// assistant phrased.
	if reply == "" {
		reply = fmt.Sprintf("Thanks! I created a booking request with id %d. Our staff will confirm it shortly.", created.ID)
	} else if !strings.Contains(reply, strconv.Itoa(created.ID)) {
		reply = fmt.Sprintf("%s Your booking id is %d.", strings.TrimSpace(reply), created.ID)
	}

	return entity.ConversationResult{
		Success:       true,
		Transcription: text,
		AIResponse:    reply,
		Booking:       &created,
		Action:        entity.ActionBookingCreated,
	}
}

// mergeFields prefers assistant values and falls back to the regex pass for
// anything the assistant left blank.
func mergeFields(base, refined nlp.BookingFields) nlp.BookingFields {
	out := base
	if refined.CustomerName != "" {
		out.CustomerName = refined.CustomerName
	}
	if refined.PhoneNumber != "" {
		out.PhoneNumber = refined.PhoneNumber
	}
	if refined.PartySize > 0 {
		out.PartySize = refined.PartySize
	}
	if refined.Date != "" {
		out.Date = refined.Date
	}
	if refined.StartTime != "" {
		out.StartTime = refined.StartTime
	}
	if refined.EndTime != "" {
		out.EndTime = refined.EndTime
	}
	if refined.Notes != "" {
		out.Notes = refined.Notes
	}
	return out
}
