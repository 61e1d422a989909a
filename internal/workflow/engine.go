package workflow

import (
	"context"
	"fmt"
	"time"

	"ai-docgen-be/internal/constant"
	"ai-docgen-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// DeliverySink pushes generated sections and terminal signals to the
// transport. All methods are best-effort from the engine's point of view:
// failures are logged and never abort the session.
type DeliverySink interface {
	DeliverSection(documentID, sectionID, sectionName, contentHTML string, isEditable bool) error
	DeliverStreamEnd(documentID string) error
	DeliverDocumentComplete(documentID string) error
}

// SessionRecorder persists workflow progress outside the engine's memory.
// Also best-effort: the session keeps progressing in memory when the store
// is unavailable.
type SessionRecorder interface {
	RecordSection(ctx context.Context, documentID, sectionID, sectionName, content string, position int) error
	RecordFeedback(ctx context.Context, sectionID, feedbackType, editedContent string) error
	RecordCompletion(ctx context.Context, documentID string, finalContent []string) error
}

// CheckpointStore snapshots session state after every phase so an operator
// can inspect or resume a stuck session by its run token.
type CheckpointStore interface {
	Save(runToken string, state *SessionState)
}

// Engine drives one document's generation session through the fixed phase
// pipeline Plan -> Generate -> Stream -> AwaitFeedback -> ApplyFeedback ->
// Decide. A single Engine is shared across sessions; all per-session state
// lives in the SessionState passed to Run.
type Engine struct {
	planner     *SectionPlanner
	generator   *ContentGenerator
	feedback    *FeedbackChannel
	sink        DeliverySink
	recorder    SessionRecorder
	checkpoints CheckpointStore
	logger      logger.ILogger

	feedbackTimeout time.Duration
}

func NewEngine(
	planner *SectionPlanner,
	generator *ContentGenerator,
	feedback *FeedbackChannel,
	sink DeliverySink,
	recorder SessionRecorder,
	checkpoints CheckpointStore,
	log logger.ILogger,
	feedbackTimeout time.Duration,
) *Engine {
	if feedbackTimeout <= 0 {
		feedbackTimeout = DefaultFeedbackTimeout
	}
	return &Engine{
		planner:         planner,
		generator:       generator,
		feedback:        feedback,
		sink:            sink,
		recorder:        recorder,
		checkpoints:     checkpoints,
		logger:          log,
		feedbackTimeout: feedbackTimeout,
	}
}

// Run executes the session to completion. The only error it can return is a
// failure inside AwaitFeedback: every other phase recovers with a fallback.
func (e *Engine) Run(ctx context.Context, state *SessionState) error {
	phase := PhasePlan
	for phase != PhaseDone {
		next, err := e.step(ctx, state, phase)
		if err != nil {
			return fmt.Errorf("phase %s: %w", phase, err)
		}
		if e.checkpoints != nil {
			e.checkpoints.Save(state.RunToken, state)
		}
		phase = next
	}
	return nil
}

func (e *Engine) step(ctx context.Context, state *SessionState, phase Phase) (Phase, error) {
	switch phase {
	case PhasePlan:
		return e.runPlan(ctx, state), nil
	case PhaseGenerate:
		return e.runGenerate(ctx, state), nil
	case PhaseStream:
		return e.runStream(ctx, state), nil
	case PhaseAwaitFeedback:
		return e.runAwaitFeedback(ctx, state)
	case PhaseApplyFeedback:
		return e.runApplyFeedback(ctx, state), nil
	case PhaseDecide:
		return e.runDecide(ctx, state), nil
	default:
		return PhaseDone, nil
	}
}

func (e *Engine) runPlan(ctx context.Context, state *SessionState) Phase {
	state.SectionNames = e.planner.Plan(ctx, state.TemplateType, state.Query)
	state.CurrentSectionIndex = 0
	return PhaseGenerate
}

func (e *Engine) runGenerate(ctx context.Context, state *SessionState) Phase {
	if len(state.SectionNames) == 0 {
		e.logger.Warn("Engine", "No section names in state, re-planning", map[string]interface{}{
			"document_id": state.DocumentID,
		})
		return PhasePlan
	}
	if state.CurrentSectionIndex < 0 || state.CurrentSectionIndex >= len(state.SectionNames) {
		e.logger.Warn("Engine", "Section index out of range, re-planning", map[string]interface{}{
			"document_id": state.DocumentID,
			"index":       state.CurrentSectionIndex,
		})
		state.CurrentSectionIndex = 0
		return PhasePlan
	}

	sectionName := state.SectionNames[state.CurrentSectionIndex]
	content := e.generator.Generate(ctx, state.Query, sectionName)

	state.CurrentSectionID = uuid.NewString()
	state.CurrentSectionContent = content
	state.Sections = append(state.Sections, GeneratedSection{
		ID:      state.CurrentSectionID,
		Name:    sectionName,
		Content: content,
	})
	state.FinalContent = append(state.FinalContent, content)

	if e.recorder != nil {
		if err := e.recorder.RecordSection(ctx, state.DocumentID, state.CurrentSectionID, sectionName, content, state.CurrentSectionIndex); err != nil {
			e.logger.Error("Engine", "Failed to record section", map[string]interface{}{
				"document_id": state.DocumentID,
				"section_id":  state.CurrentSectionID,
				"error":       err.Error(),
			})
		}
	}

	return PhaseStream
}

func (e *Engine) runStream(ctx context.Context, state *SessionState) Phase {
	// CurrentSectionContent is deliberately not checked here: an empty
	// string is still a generated result (the model can legitimately
	// produce one), and treating it as corruption would re-plan forever.
	if state.DocumentID == "" || state.CurrentSectionID == "" ||
		len(state.SectionNames) == 0 || state.CurrentSectionIndex >= len(state.SectionNames) {
		e.logger.Warn("Engine", "State incomplete at stream phase, re-planning", map[string]interface{}{
			"document_id": state.DocumentID,
		})
		return PhasePlan
	}

	sectionName := state.SectionNames[state.CurrentSectionIndex]
	isEditable := IsSectionEditable(sectionName)

	err := e.sink.DeliverSection(state.DocumentID, state.CurrentSectionID, sectionName, state.CurrentSectionContent, isEditable)
	if err != nil {
		// Client recovers via replay on reconnect.
		e.logger.Error("Engine", "Failed to stream section", map[string]interface{}{
			"document_id": state.DocumentID,
			"section_id":  state.CurrentSectionID,
			"error":       err.Error(),
		})
	}

	return PhaseAwaitFeedback
}

func (e *Engine) runAwaitFeedback(ctx context.Context, state *SessionState) (Phase, error) {
	if state.CurrentSectionID == "" {
		return PhaseDone, fmt.Errorf("missing current section id while waiting for feedback")
	}

	fb := e.feedback.Await(ctx, state.DocumentID, state.CurrentSectionID, e.feedbackTimeout)
	if fb.FeedbackType == constant.FeedbackEnd {
		state.Completed = true
	}
	state.Feedback = &fb

	e.logger.Info("Engine", "Received feedback", map[string]interface{}{
		"document_id":   state.DocumentID,
		"section_id":    state.CurrentSectionID,
		"feedback_type": fb.FeedbackType,
	})

	return PhaseApplyFeedback, nil
}

func (e *Engine) runApplyFeedback(ctx context.Context, state *SessionState) Phase {
	if state.Feedback == nil {
		state.LastFeedbackType = constant.FeedbackContinue
		return PhaseDecide
	}

	fb := *state.Feedback
	feedbackType := fb.FeedbackType
	if feedbackType == "" {
		feedbackType = constant.FeedbackContinue
	}

	if fb.EditedContent != "" {
		if section := state.SectionByID(state.CurrentSectionID); section != nil {
			section.Content = fb.EditedContent
		}
	}

	if e.recorder != nil {
		if err := e.recorder.RecordFeedback(ctx, state.CurrentSectionID, feedbackType, fb.EditedContent); err != nil {
			e.logger.Error("Engine", "Failed to record feedback", map[string]interface{}{
				"section_id": state.CurrentSectionID,
				"error":      err.Error(),
			})
		}
	}

	state.Feedback = nil
	state.LastFeedbackType = feedbackType
	return PhaseDecide
}

func (e *Engine) runDecide(ctx context.Context, state *SessionState) Phase {
	if state.LastFeedbackType == constant.FeedbackEnd || state.Completed {
		state.AssembleFinalContent()
		state.Completed = true
		e.logger.Info("Engine", "Session ended by feedback", map[string]interface{}{
			"document_id": state.DocumentID,
			"sections":    len(state.FinalContent),
		})
		return PhaseDone
	}

	if state.LastFeedbackType == constant.FeedbackRegenerate {
		// Same index: regenerate the current section under a fresh id.
		// The superseded entry is dropped so it does not reach the final
		// document.
		if i := len(state.Sections) - 1; i >= 0 && state.Sections[i].ID == state.CurrentSectionID {
			state.Sections = state.Sections[:i]
		}
		return PhaseGenerate
	}

	if state.CurrentSectionIndex+1 < len(state.SectionNames) {
		state.CurrentSectionIndex++
		return PhaseGenerate
	}

	// All sections exhausted.
	state.AssembleFinalContent()
	state.Completed = true

	if err := e.sink.DeliverStreamEnd(state.DocumentID); err != nil {
		e.logger.Error("Engine", "Failed to deliver stream end", map[string]interface{}{
			"document_id": state.DocumentID,
			"error":       err.Error(),
		})
	}
	if err := e.sink.DeliverDocumentComplete(state.DocumentID); err != nil {
		e.logger.Error("Engine", "Failed to deliver document complete", map[string]interface{}{
			"document_id": state.DocumentID,
			"error":       err.Error(),
		})
	}

	if e.recorder != nil {
		if err := e.recorder.RecordCompletion(ctx, state.DocumentID, state.FinalContent); err != nil {
			e.logger.Error("Engine", "Failed to record completion", map[string]interface{}{
				"document_id": state.DocumentID,
				"error":       err.Error(),
			})
		}
	}

	e.logger.Info("Engine", "All sections completed", map[string]interface{}{
		"document_id": state.DocumentID,
		"sections":    len(state.FinalContent),
	})
	return PhaseDone
}
