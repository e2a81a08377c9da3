package mailbox

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MohamedEliwa204/mail/internal/model"
)

// promptBulk opens the confirmation dialog for a destructive bulk action.
// With an empty selection there is nothing to confirm and nothing happens.
func (m Model) promptBulk(action, target string) (Model, tea.Cmd) {
	if len(m.selected) == 0 {
		m.statusMsg = "no mail selected"
		return m, nil
	}

	title := fmt.Sprintf("%s %d mail(s)?", action, len(m.selected))
	if target != "" {
		title = fmt.Sprintf("%s %d mail(s) to %s?", action, len(m.selected), target)
	}

	m.fb = &formBindings{target: target}
	m.pendingBulk = action
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.confirm),
		),
	)
	m.mode = modeConfirm
	return m, m.form.Init()
}

// promptFolderPick opens the target folder selector for move/copy. The
// active folder is excluded; moving mail onto itself is a no-op the server
// should never see.
func (m Model) promptFolderPick(action string) (Model, tea.Cmd) {
	if len(m.selected) == 0 {
		m.statusMsg = "no mail selected"
		return m, nil
	}

	var options []huh.Option[string]
	for _, f := range model.SystemFolders {
		if f != m.folder {
			options = append(options, huh.NewOption(f, f))
		}
	}
	for _, f := range m.customFolders {
		if f != m.folder {
			options = append(options, huh.NewOption(f, f))
		}
	}
	if len(options) == 0 {
		m.statusMsg = "no target folder available"
		return m, nil
	}

	m.fb = &formBindings{}
	m.pendingBulk = action
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s %d mail(s) to", action, len(m.selected))).
				Options(options...).
				Value(&m.fb.target),
		),
	)
	m.mode = modePickFolder
	return m, m.form.Init()
}

// updateForm routes messages to the open huh form and acts on completion.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.mode = modeList
		m.form = nil
		m.pendingBulk = ""
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	wasPick := m.mode == modePickFolder
	m.mode = modeList
	m.form = nil

	if wasPick {
		// Folder chosen; chain into the confirmation step.
		return m.promptBulk(m.pendingBulk, m.fb.target)
	}

	if !m.fb.confirm {
		m.pendingBulk = ""
		m.statusMsg = "cancelled"
		return m, nil
	}

	action := m.pendingBulk
	m.pendingBulk = ""
	switch action {
	case "delete":
		return m.runBulkDelete()
	case "move":
		return m.runBulkMove(m.fb.target)
	case "copy":
		return m.runBulkCopy(m.fb.target)
	}
	return m, nil
}

// runBulkDelete deletes every selected mail, one request per id, and
// reports which ids the server acknowledged.
func (m Model) runBulkDelete() (Model, tea.Cmd) {
	ids := m.SelectedIDs()
	r := m.remote
	m.loading = true

	return m, tea.Batch(func() tea.Msg {
		done := bulkDoneMsg{action: "delete"}
		for _, id := range ids {
			if err := r.DeleteMail(context.Background(), id); err != nil {
				done.failed = append(done.failed, id)
				done.err = err
				continue
			}
			done.acked = append(done.acked, id)
		}
		return done
	}, m.spinner.Tick)
}

// runBulkMove moves the selection in a single batch request; the response
// splits the ids into moved and failed.
func (m Model) runBulkMove(target string) (Model, tea.Cmd) {
	ids := m.SelectedIDs()
	r := m.remote
	m.loading = true

	return m, tea.Batch(func() tea.Msg {
		result, err := r.MoveMails(context.Background(), ids, target)
		if err != nil {
			return bulkDoneMsg{action: "move", target: target, failed: ids, err: err}
		}
		return bulkDoneMsg{
			action: "move",
			target: target,
			acked:  result.Moved,
			failed: result.Failed,
		}
	}, m.spinner.Tick)
}

// runBulkCopy copies every selected mail into the target folder. Copies
// leave the current folder untouched, so acked ids stay listed and only
// the selection is cleared.
func (m Model) runBulkCopy(target string) (Model, tea.Cmd) {
	ids := m.SelectedIDs()
	r := m.remote
	m.loading = true

	return m, tea.Batch(func() tea.Msg {
		done := bulkDoneMsg{action: "copy", target: target}
		for _, id := range ids {
			if err := r.CopyMail(context.Background(), id, target); err != nil {
				done.failed = append(done.failed, id)
				done.err = err
				continue
			}
			done.acked = append(done.acked, id)
		}
		return done
	}, m.spinner.Tick)
}

// applyBulkDone reconciles a bulk outcome: acknowledged ids leave the
// collection (except copies) and the selection; failed ids stay both
// selected and listed so the user can retry them.
func (m Model) applyBulkDone(msg bulkDoneMsg) Model {
	m.loading = false

	acked := make(map[int64]struct{}, len(msg.acked))
	for _, id := range msg.acked {
		acked[id] = struct{}{}
		delete(m.selected, id)
	}

	if msg.action != "copy" && len(acked) > 0 {
		kept := m.mails[:0]
		for _, mail := range m.mails {
			if _, gone := acked[mail.ID]; !gone {
				kept = append(kept, mail)
			}
		}
		m.mails = kept
		m.pager.SetTotal(len(m.mails))
		m.clampCursor()
	}

	switch {
	case msg.err != nil:
		m.errMsg = fmt.Sprintf(
			"%s failed for %d of %d mail(s): %v",
			msg.action, len(msg.failed), len(msg.failed)+len(msg.acked), msg.err,
		)
		m.log.WithError(msg.err).
			WithField("action", msg.action).
			WithField("failed", len(msg.failed)).
			Error("bulk action partially failed")
	case len(msg.failed) > 0:
		m.errMsg = fmt.Sprintf("%s failed for %d mail(s)", msg.action, len(msg.failed))
	default:
		m.errMsg = ""
		if msg.target != "" {
			m.statusMsg = fmt.Sprintf("%s %d mail(s) to %s", pastTense(msg.action), len(msg.acked), msg.target)
		} else {
			m.statusMsg = fmt.Sprintf("%s %d mail(s)", pastTense(msg.action), len(msg.acked))
		}
	}

	return m
}

func pastTense(action string) string {
	switch action {
	case "copy":
		return "copied"
	case "move":
		return "moved"
	case "delete":
		return "deleted"
	default:
		return action
	}
}
