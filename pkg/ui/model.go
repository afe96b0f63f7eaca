package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/conversation"
)

type errMsg error

// UI states:
// - user input
// - waiting for a completion
// - showing error
type State string

const (
	StateUserInput         State = "user_input"
	StatePendingCompletion State = "pending_completion"
	StateError             State = "error"
)

type model struct {
	controller *chat.Controller
	renderer   *conversation.Renderer

	// history is the last event payload, rendered in the viewport. The
	// controller owns the real thing.
	history conversation.Conversation
	errText string

	viewport viewport.Model
	textArea textarea.Model
	help     help.Model
	spin     spinner.Model

	err    error
	keyMap KeyMap

	style  *Style
	width  int
	height int

	state        State
	quitReceived bool
	statusText   string
}

type refreshMessageMsg struct {
	GoToBottom bool
}

type transcriptSavedMsg struct {
	path string
}

func InitialModel(controller *chat.Controller) tea.Model {
	ret := model{
		controller: controller,
		renderer:   &conversation.Renderer{Concise: true},
		style:      DefaultStyles(),
		keyMap:     DefaultKeyMap,
		viewport:   viewport.New(0, 0),
		help:       help.New(),
		width:      80,
		height:     24,
	}

	ret.textArea = textarea.New()
	ret.textArea.Placeholder = "Say something..."
	ret.textArea.Focus()

	ret.spin = spinner.New()
	ret.spin.Spinner = spinner.Dot

	ret.history = controller.State().History()
	ret.state = StateUserInput

	ret.viewport.SetContent(ret.messageView())
	ret.viewport.YPosition = 0
	ret.viewport.GotoBottom()

	ret.updateKeyBindings()

	return ret
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.quitReceived = true
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.SubmitMessage):
			if m.state == StateUserInput {
				cmd := m.submit()
				cmds = append(cmds, cmd)
			}

		case key.Matches(msg, m.keyMap.ClearConversation):
			if m.state == StateUserInput {
				m.statusText = ""
				m.controller.ClearChat()
			}

		case key.Matches(msg, m.keyMap.SaveToFile):
			if m.state != StatePendingCompletion {
				cmds = append(cmds, m.saveTranscript())
			}

		case key.Matches(msg, m.keyMap.DismissError):
			if m.state == StateError {
				m.errText = ""
				m.err = nil
				m.state = StateUserInput
				m.updateKeyBindings()
			}
			return m, tea.Batch(cmds...)

		default:
			if m.state == StateUserInput {
				m.textArea, cmd = m.textArea.Update(msg)
				cmds = append(cmds, cmd)
			} else {
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.recomputeSize()

	// We handle errors just like any other message
	case errMsg:
		m.err = msg
		m.errText = msg.Error()
		m.state = StateError
		m.updateKeyBindings()
		return m, nil

	case PendingMsg:
		m.history = msg.History
		m.errText = ""
		m.state = StatePendingCompletion
		m.updateKeyBindings()
		cmds = append(cmds, m.spin.Tick, refreshCmd(true))

	case SettledMsg:
		m.history = msg.History
		m.errText = ""
		m.state = StateUserInput
		m.updateKeyBindings()
		cmds = append(cmds, refreshCmd(true))

	case FailedMsg:
		m.history = msg.History
		m.errText = msg.ErrorString
		m.state = StateError
		m.updateKeyBindings()
		cmds = append(cmds, refreshCmd(true))

	case ClearedMsg:
		m.history = nil
		m.errText = ""
		m.statusText = ""
		m.state = StateUserInput
		m.updateKeyBindings()
		cmds = append(cmds, refreshCmd(false))

	case spinner.TickMsg:
		if m.state == StatePendingCompletion {
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case transcriptSavedMsg:
		m.statusText = fmt.Sprintf("transcript saved to %s", msg.path)
		cmds = append(cmds, refreshCmd(false))

	case refreshMessageMsg:
		m.viewport.SetContent(m.messageView())
		m.recomputeSize()
		if msg.GoToBottom {
			m.viewport.GotoBottom()
		}

	default:
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) updateKeyBindings() {
	m.keyMap.SubmitMessage.SetEnabled(m.state == StateUserInput)
	m.keyMap.ClearConversation.SetEnabled(m.state == StateUserInput)
	m.keyMap.SaveToFile.SetEnabled(m.state != StatePendingCompletion)
	m.keyMap.DismissError.SetEnabled(m.state == StateError)
}

func (m *model) recomputeSize() {
	headerHeight := lipgloss.Height(m.headerView())
	textAreaHeight := lipgloss.Height(m.textAreaView())
	helpViewHeight := lipgloss.Height(m.help.View(m.keyMap))

	newHeight := m.height - textAreaHeight - headerHeight - helpViewHeight
	if newHeight < 0 {
		newHeight = 0
	}
	m.viewport.Width = m.width
	m.viewport.Height = newHeight
	m.viewport.YPosition = headerHeight + 1

	h, _ := m.style.UserMessage.GetFrameSize()
	m.textArea.SetWidth(m.width - h)

	m.viewport.SetContent(m.messageView())
	m.viewport.GotoBottom()
}

func (m model) headerView() string {
	return "MARIONETTE AT YOUR SERVICE:"
}

func (m model) messageView() string {
	ret := ""

	w, _ := m.style.UserMessage.GetFrameSize()
	padding := m.style.UserMessage.GetHorizontalPadding()
	for _, msg := range m.history {
		v := fmt.Sprintf("[%s]: %s", msg.Role, msg.Text)
		v = wrapWords(v, m.width-w-padding)
		style := m.style.AssistantMessage
		if msg.IsUser() {
			style = m.style.UserMessage
		}
		ret += style.Width(m.width - padding).Render(v)
		ret += "\n"
	}

	if m.statusText != "" {
		ret += m.style.StatusLine.Render(m.statusText)
		ret += "\n"
	}

	return ret
}

func (m model) textAreaView() string {
	w, _ := m.style.UserMessage.GetFrameSize()

	if m.state == StateError {
		v := wrapWords(m.errText, m.width-w)
		return m.style.ErrorMessage.Render(v)
	}

	if m.state == StatePendingCompletion {
		return m.style.UnfocusedInput.Render(m.spin.View() + " waiting for a reply...")
	}

	return m.style.FocusedInput.Render(m.textArea.View())
}

func (m model) View() string {
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.textAreaView() + "\n" + m.help.View(m.keyMap)
}

func (m *model) submit() tea.Cmd {
	if m.state == StatePendingCompletion {
		return func() tea.Msg {
			return errMsg(errors.New("still waiting for a reply"))
		}
	}

	text := strings.TrimSpace(m.textArea.Value())
	if text == "" {
		return nil
	}

	m.controller.SendMessage(text)

	m.state = StatePendingCompletion
	m.updateKeyBindings()
	m.textArea.SetValue("")
	m.viewport.GotoBottom()

	return refreshCmd(true)
}

func (m *model) saveTranscript() tea.Cmd {
	history := m.history
	renderer := m.renderer
	return func() tea.Msg {
		path := fmt.Sprintf("transcript-%s.md", time.Now().Format("2006-01-02-15-04-05"))
		f, err := os.Create(path)
		if err != nil {
			return errMsg(errors.Wrap(err, "could not create transcript file"))
		}
		defer func() {
			_ = f.Close()
		}()
		if err := renderer.RenderTo(f, "Chat transcript", history); err != nil {
			return errMsg(err)
		}
		return transcriptSavedMsg{path: path}
	}
}

func refreshCmd(goToBottom bool) tea.Cmd {
	return func() tea.Msg {
		return refreshMessageMsg{GoToBottom: goToBottom}
	}
}
