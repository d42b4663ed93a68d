package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ecert-oman/ecert-backend/internal/models"
	"github.com/ecert-oman/ecert-backend/internal/storage"
	"github.com/ecert-oman/ecert-backend/internal/utils"
)

const maxCustomMessageLen = 50

// ActionType identifies one outbound action requested by the engine.
type ActionType int

const (
	ActionSendText ActionType = iota
	ActionSendTemplate
	ActionSendCertificate
)

// Action is one outbound send the engine requests. Actions are dispatched in
// order after the state transition has been persisted; a delivery failure is
// logged and never rolls the transition back.
type Action struct {
	Type     ActionType
	To       string
	Text     string
	Template string

	// Certificate delivery
	CertificateID int
	RecipientName string
}

// Engine is the conversation state machine. Processing one inbound message
// performs at most one state transition; messages from the same user are
// serialized with a per-user lock, different users proceed in parallel.
type Engine struct {
	store     storage.Store
	messenger Messenger
	payments  *PaymentService
	catalog   *Catalog
	media     *CloudinaryService
	audit     *AuditLog
	replies   Replies

	// When false the custom-message step is skipped and a validated
	// recipient number goes straight to confirmation.
	customMessageStep bool

	lockMu    sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewEngine creates the conversation engine.
func NewEngine(store storage.Store, messenger Messenger, payments *PaymentService,
	catalog *Catalog, media *CloudinaryService, audit *AuditLog,
	replies Replies, customMessageStep bool) *Engine {
	return &Engine{
		store:             store,
		messenger:         messenger,
		payments:          payments,
		catalog:           catalog,
		media:             media,
		audit:             audit,
		replies:           replies,
		customMessageStep: customMessageStep,
		userLocks:         make(map[string]*sync.Mutex),
	}
}

// HandleMessage processes one inbound message from a user: normalizes the
// payload to a command, runs the state transition under the user's lock,
// persists the session, then dispatches the outbound actions.
func (e *Engine) HandleMessage(from, input string) error {
	sender := utils.StripPlus(from)

	unlock := e.lockUser(sender)
	defer unlock()

	cmd := ParseCommand(input, e.replies)

	session, err := e.store.GetSession(sender)
	if err != nil {
		return fmt.Errorf("failed to load session for %s: %v", sender, err)
	}

	// Global overrides, checked before state dispatch
	if cmd.Kind == CommandStop {
		if session != nil {
			if err := e.store.DeleteSession(sender); err != nil {
				return err
			}
		}
		return e.dispatch([]Action{{Type: ActionSendText, To: sender, Text: e.replies.SessionEnded}})
	}
	if session == nil || cmd.Kind == CommandStart {
		session = models.NewSession(sender)
	}

	session.LastActivityAt = time.Now()

	actions, terminate := e.transition(session, cmd)

	if terminate {
		if err := e.store.DeleteSession(sender); err != nil {
			return err
		}
	} else {
		if err := e.store.SaveSession(session); err != nil {
			return fmt.Errorf("failed to save session for %s: %v", sender, err)
		}
	}

	return e.dispatch(actions)
}

// transition applies one command to the session and returns the outbound
// actions plus whether the session terminates. Validation failures leave the
// state unchanged and re-prompt.
func (e *Engine) transition(session *models.Session, cmd Command) ([]Action, bool) {
	sender := session.SenderNumber

	switch session.Step {
	case models.StepWelcome:
		session.Step = models.StepSelectCertificate
		return []Action{{Type: ActionSendTemplate, To: sender, Template: e.replies.WelcomeTemplate}}, false

	case models.StepSelectCertificate:
		id, err := strconv.Atoi(cmd.Text)
		if err != nil {
			return e.reply(sender, e.replies.InvalidCertificate), false
		}
		if _, ok := e.catalog.Get(id); !ok {
			return e.reply(sender, e.replies.InvalidCertificate), false
		}
		session.SelectedCertificate = id
		session.Step = models.StepAskRecipientName
		return e.reply(sender, e.replies.PromptName), false

	case models.StepAskRecipientName:
		if cmd.Text == "" {
			return e.reply(sender, e.replies.InvalidName), false
		}
		session.RecipientName = cmd.Text
		session.Step = models.StepAskRecipientNumber
		return e.reply(sender, e.replies.PromptNumber), false

	case models.StepAskRecipientNumber:
		number, err := utils.NormalizePhone(cmd.Text)
		if err != nil {
			return e.reply(sender, e.replies.InvalidNumber), false
		}
		session.RecipientNumber = number
		if e.customMessageStep {
			session.Step = models.StepAskCustomMessage
			return e.reply(sender, e.replies.PromptCustomMessage), false
		}
		session.Step = models.StepConfirmSend
		return e.reply(sender, fmt.Sprintf(e.replies.ConfirmSendFmt, session.RecipientName)), false

	case models.StepAskCustomMessage:
		if cmd.Text == "" || strings.ContainsAny(cmd.Text, "\r\n") ||
			len([]rune(cmd.Text)) > maxCustomMessageLen {
			return e.reply(sender, e.replies.InvalidCustomMessage), false
		}
		session.CustomMessage = cmd.Text
		session.Step = models.StepConfirmSend
		return e.reply(sender, fmt.Sprintf(e.replies.ConfirmSendFmt, session.RecipientName)), false

	case models.StepConfirmSend:
		switch cmd.Kind {
		case CommandAffirmative:
			cert, ok := e.catalog.Get(session.SelectedCertificate)
			if !ok {
				// Catalog changed under a live session; start over
				session.Step = models.StepWelcome
				return e.reply(sender, e.replies.UnknownStep), false
			}
			if cert.Free {
				return e.deliverFree(session, cert), false
			}
			return e.startCheckout(session), false
		case CommandNegative:
			return e.reply(sender, e.replies.SessionEnded), true
		default:
			return e.reply(sender, e.replies.YesNoPrompt), false
		}

	case models.StepAwaitPayment:
		// Exit happens only via the payment webhook, never via chat
		return e.reply(sender, e.replies.AwaitingPayment), false

	case models.StepAskAnother:
		switch cmd.Kind {
		case CommandAffirmative:
			session.Step = models.StepSelectCertificate
			return []Action{{Type: ActionSendTemplate, To: sender, Template: e.replies.WelcomeTemplate}}, false
		case CommandNegative:
			return e.reply(sender, e.replies.SessionEnded), true
		default:
			return e.reply(sender, e.replies.YesNoPrompt), false
		}

	default:
		// Corrupted step value: reset to a fresh welcome
		log.Printf("Unknown conversation step %q for %s, resetting session", session.Step, sender)
		*session = *models.NewSession(sender)
		return e.reply(sender, e.replies.UnknownStep), false
	}
}

// deliverFree sends a free certificate immediately and moves to ask_another.
func (e *Engine) deliverFree(session *models.Session, cert Certificate) []Action {
	sender := session.SenderNumber

	actions := []Action{{
		Type:          ActionSendCertificate,
		To:            session.RecipientNumber,
		CertificateID: cert.ID,
		RecipientName: session.RecipientName,
	}}
	if session.CustomMessage != "" {
		actions = append(actions, Action{Type: ActionSendText, To: session.RecipientNumber, Text: session.CustomMessage})
	}
	actions = append(actions,
		Action{Type: ActionSendText, To: sender, Text: e.replies.CertificateSent},
		Action{Type: ActionSendText, To: sender, Text: e.replies.AskAnother},
	)

	session.CertificatesSent++
	session.Step = models.StepAskAnother

	e.audit.Record(sender, session.RecipientName, session.RecipientNumber, cert.ID)
	return actions
}

// startCheckout opens a payment session. Creation is awaited here because
// its outcome decides whether the state advances to await_payment.
func (e *Engine) startCheckout(session *models.Session) []Action {
	sender := session.SenderNumber

	checkoutURL, err := e.payments.CreateCheckout(session)
	if err != nil {
		log.Printf("❌ Failed to create checkout for %s: %v", sender, err)
		return e.reply(sender, e.replies.PaymentError)
	}

	session.PaymentPending = true
	session.Step = models.StepAwaitPayment
	return e.reply(sender, fmt.Sprintf(e.replies.PaymentLinkFmt, checkoutURL))
}

func (e *Engine) reply(to, text string) []Action {
	return []Action{{Type: ActionSendText, To: to, Text: text}}
}

// dispatch sends the queued actions in order. Failures are logged; the state
// transition already persisted is not rolled back.
func (e *Engine) dispatch(actions []Action) error {
	for _, action := range actions {
		var err error
		switch action.Type {
		case ActionSendText:
			err = e.messenger.SendText(action.To, action.Text)
		case ActionSendTemplate:
			err = e.messenger.SendTemplate(action.To, action.Template)
		case ActionSendCertificate:
			cert, ok := e.catalog.Get(action.CertificateID)
			if !ok {
				log.Printf("❌ No catalog entry for certificate %d", action.CertificateID)
				continue
			}
			imageURL := e.media.BuildCertificateURL(cert.PublicID, action.RecipientName)
			err = e.messenger.SendCertificateImage(action.To, imageURL, action.RecipientName)
		}
		if err != nil {
			log.Printf("❌ Failed to send to %s: %v", action.To, err)
		}
	}
	return nil
}

// lockUser serializes message processing per user so two near-simultaneous
// messages cannot read-modify-write the same session concurrently.
func (e *Engine) lockUser(sender string) func() {
	e.lockMu.Lock()
	lock, ok := e.userLocks[sender]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[sender] = lock
	}
	e.lockMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
