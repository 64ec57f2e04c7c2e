package ui

import (
	"context"
	"fmt"

	"mise/internal/db"
	"mise/internal/model"
	"mise/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

type undoAction struct {
	label string
	undo  func() error
	redo  func() error
}

type undoAppliedMsg struct {
	err       error
	action    undoAction
	direction string // undo, redo
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	return func() tea.Msg {
		err := action.undo()
		return undoAppliedMsg{err: err, action: action, direction: "undo"}
	}
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	return func() tea.Msg {
		err := action.redo()
		return undoAppliedMsg{err: err, action: action, direction: "redo"}
	}
}

func (m *Model) applyUndoResult(msg undoAppliedMsg) tea.Cmd {
	if msg.err != nil {
		m.error = fmt.Sprintf("%s failed: %v", msg.direction, msg.err)
		return nil
	}

	if msg.direction == "undo" {
		m.redoStack = append(m.redoStack, msg.action)
		m.info = "Undid: " + msg.action.label
	} else {
		m.undoStack = append(m.undoStack, msg.action)
		m.info = "Redid: " + msg.action.label
	}
	m.error = ""
	return m.reloadAllCmd()
}

// withTimeout runs fn with a context bounded by the service timeout.
func withTimeout(svc *workflow.Service, fn func(ctx context.Context) error) error {
	ctx, cancel := svc.Context()
	defer cancel()
	return fn(ctx)
}

func savedMsg(screen model.Screen, op, label string, undo, redo func() error) model.SavedMsg {
	return model.SavedMsg{Screen: screen, Operation: op, Label: label, Undo: undo, Redo: redo}
}

// createCmd inserts v. Undo deletes the new record; redo restores it under
// the same id.
func createCmd[T any](svc *workflow.Service, screen model.Screen, label string, c db.Collection[T], mir *workflow.Mirror[T], v T) tea.Cmd {
	return func() tea.Msg {
		var created T
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			created, err = workflow.Create(ctx, svc, c, mir, v)
			return err
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		id := c.ID(created)
		return savedMsg(screen, "insert", label,
			func() error {
				return withTimeout(svc, func(ctx context.Context) error { return workflow.Delete(ctx, svc, c, mir, id) })
			},
			func() error {
				return withTimeout(svc, func(ctx context.Context) error { return workflow.Restore(ctx, svc, c, mir, created) })
			},
		)
	}
}

// updateCmd overwrites before with after. Undo and redo write back the
// whole record.
func updateCmd[T any](svc *workflow.Service, screen model.Screen, label string, c db.Collection[T], mir *workflow.Mirror[T], before, after T) tea.Cmd {
	return func() tea.Msg {
		err := withTimeout(svc, func(ctx context.Context) error {
			return workflow.Update(ctx, svc, c, mir, after)
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return savedMsg(screen, "update", label,
			restoreFunc(svc, c, mir, before),
			restoreFunc(svc, c, mir, after),
		)
	}
}

// deleteCmd removes v. Undo restores it under its old id.
func deleteCmd[T any](svc *workflow.Service, screen model.Screen, label string, c db.Collection[T], mir *workflow.Mirror[T], v T) tea.Cmd {
	return func() tea.Msg {
		id := c.ID(v)
		err := withTimeout(svc, func(ctx context.Context) error {
			return workflow.Delete(ctx, svc, c, mir, id)
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return savedMsg(screen, "delete", label,
			restoreFunc(svc, c, mir, v),
			func() error {
				return withTimeout(svc, func(ctx context.Context) error { return workflow.Delete(ctx, svc, c, mir, id) })
			},
		)
	}
}

func restoreFunc[T any](svc *workflow.Service, c db.Collection[T], mir *workflow.Mirror[T], v T) func() error {
	return func() error {
		return withTimeout(svc, func(ctx context.Context) error { return workflow.Restore(ctx, svc, c, mir, v) })
	}
}
