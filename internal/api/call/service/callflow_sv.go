package callService

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"BistroGolang/internal/api/call"
	"BistroGolang/internal/entity"
	contextPkg "BistroGolang/pkg/context"
	"BistroGolang/pkg/twiml"
	"BistroGolang/pkg/websocket"

	"github.com/sirupsen/logrus"
)

const (
	greetingText  = "Hello! Thanks for calling. Tell me about your reservation after the beep, press pound when you are done."
	noAudioText   = "Sorry, I didn't receive your message. Please try again after the beep."
	goodbyeText   = "Have a wonderful day!"
	giveUpText    = "I'm sorry, I couldn't understand the request. Please call back later or book online. Goodbye."
	troubleText   = "I'm sorry, we're having trouble processing your call right now. Please try again later."
	recordAction  = "/webhooks/process-recording"
	recordingHook = "/webhooks/recording-status"
)

func (s *callFlowService) HandleCallStart(ctx context.Context, req call.VoiceWebhookRequest) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.CallSid == "" {
		return "", call.ErrMissingCallSid
	}

	session := s.sessions.Start(req.CallSid, req.From)
	s.sessions.Update(req.CallSid, func(cs *entity.CallSession) {
		cs.Status = entity.CallStatusAwaitingRecording
	})

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"call_id":    req.CallSid,
		"from":       req.From,
	}).Info("Incoming call")

	s.hub.Broadcast(websocket.EventCallStarted, session)

	return twiml.New().
		Say(greetingText).
		Record(twiml.RecordOptions{Action: recordAction, StatusCallback: recordingHook}).
		Say(noAudioText).
		Render()
}

// HandleRecording runs the whole recording to reply pipeline for one
// webhook. Events for the same call are serialized, a duplicate delivery
// waits for the first one to finish instead of racing it.
func (s *callFlowService) HandleRecording(ctx context.Context, req call.RecordingWebhookRequest) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.CallSid == "" {
		return "", call.ErrMissingCallSid
	}

	release := s.sessions.Acquire(req.CallSid)
	defer release()

	session, ok := s.sessions.Get(req.CallSid)
	if !ok {
		// The call already ended, a late webhook gets a polite hangup.
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    req.CallSid,
		}).Warn("Recording webhook for unknown call session")
		return hangupResponse(goodbyeText)
	}

	session, _ = s.sessions.Update(req.CallSid, func(cs *entity.CallSession) {
		cs.Status = entity.CallStatusProcessing
		cs.Attempts++
	})

	if session.Attempts > maxAttempts {
		s.endWithStatus(req.CallSid, entity.CallStatusEnded)
		return hangupResponse(giveUpText)
	}

	if req.RecordingUrl == "" {
		s.sessions.Update(req.CallSid, func(cs *entity.CallSession) {
			cs.Status = entity.CallStatusAwaitingRecording
		})
		return retryResponse(noAudioText)
	}

	audioData, contentType, err := s.fetchRecording(ctx, req.RecordingUrl)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    req.CallSid,
			"error":      err.Error(),
		}).Error("Failed to fetch recording")
		s.endWithStatus(req.CallSid, entity.CallStatusError)
		return hangupResponse(troubleText)
	}

	// Archival only, the caller never waits on S3.
	go s.archiveRecording(req.CallSid, audioData, contentType)

	transcription, err := s.transcriber.Transcribe(ctx, audioData, contentType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    req.CallSid,
			"error":      err.Error(),
		}).Error("Transcription failed")
		s.endWithStatus(req.CallSid, entity.CallStatusError)
		return hangupResponse(troubleText)
	}

	result := s.interpreter.Interpret(ctx, session, transcription)
	s.sessions.Update(req.CallSid, func(cs *entity.CallSession) {
		cs.LastResult = &result
	})

	switch result.Action {
	case entity.ActionBookingCreated:
		s.endWithStatus(req.CallSid, entity.CallStatusConfirmed)
		return twiml.New().
			Say(result.AIResponse).
			Say(goodbyeText).
			Hangup().
			Render()

	case entity.ActionError:
		s.endWithStatus(req.CallSid, entity.CallStatusError)
		return hangupResponse(result.AIResponse)

	default:
		// need_repeat, need_more_info and plain conversation all loop
		// back into another recording while attempts remain.
		if session.Attempts >= maxAttempts {
			s.endWithStatus(req.CallSid, entity.CallStatusEnded)
			return hangupResponse(giveUpText)
		}
		s.sessions.Update(req.CallSid, func(cs *entity.CallSession) {
			cs.Status = entity.CallStatusNeedMoreInfo
		})
		return retryResponse(result.AIResponse)
	}
}

func (s *callFlowService) HandleRecordingStatus(ctx context.Context, req call.RecordingStatusRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	if req.CallSid == "" {
		return call.ErrMissingCallSid
	}

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"call_id":          req.CallSid,
		"recording_sid":    req.RecordingSid,
		"recording_status": req.RecordingStatus,
	}).Debug("Recording status update")

	return nil
}

func (s *callFlowService) HandleCallStatus(ctx context.Context, req call.StatusWebhookRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	if req.CallSid == "" {
		return call.ErrMissingCallSid
	}

	switch req.CallStatus {
	case "completed", "failed", "busy", "no-answer", "canceled":
		if session, ok := s.sessions.Get(req.CallSid); ok {
			s.sessions.End(req.CallSid)
			s.hub.Broadcast(websocket.EventCallEnded, session)
		}
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"call_id":     req.CallSid,
			"call_status": req.CallStatus,
		}).Info("Call finished")
	default:
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"call_id":     req.CallSid,
			"call_status": req.CallStatus,
		}).Debug("Intermediate call status")
	}

	return nil
}

func (s *callFlowService) ListActiveCalls(ctx context.Context) []entity.CallSession {
	return s.sessions.List()
}

// fetchRecording downloads the audio from the telephony provider. Providers
// protect recording URLs with the account credentials, so they are attached
// when configured.
func (s *callFlowService) fetchRecording(ctx context.Context, url string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build recording request: %w", err)
	}
	if s.providerSid != "" && s.providerToken != "" {
		httpReq.SetBasicAuth(s.providerSid, s.providerToken)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("fetch recording: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch recording: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, recordingFetchLimit))
	if err != nil {
		return nil, "", fmt.Errorf("read recording body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("fetch recording: empty body")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, "audio/") {
		contentType = "audio/wav"
	}

	return data, contentType, nil
}

func (s *callFlowService) archiveRecording(callID string, data []byte, contentType string) {
	if _, err := s.s3Client.UploadRecording(callID, data, contentType); err != nil {
		s.log.WithFields(logrus.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}).Warn("Failed to archive recording")
	}
}

func (s *callFlowService) endWithStatus(callID string, status entity.CallStatus) {
	session, err := s.sessions.Update(callID, func(cs *entity.CallSession) {
		cs.Status = status
	})
	if err != nil {
		return
	}

	if status == entity.CallStatusConfirmed || status == entity.CallStatusError || status == entity.CallStatusEnded {
		s.hub.Broadcast(websocket.EventCallEnded, session)
		s.sessions.End(callID)
	}
}

func hangupResponse(text string) (string, error) {
	return twiml.New().Say(text).Hangup().Render()
}

func retryResponse(text string) (string, error) {
	return twiml.New().
		Say(text).
		Record(twiml.RecordOptions{Action: recordAction, StatusCallback: recordingHook}).
		Say(noAudioText).
		Render()
}
