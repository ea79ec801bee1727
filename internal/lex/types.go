// Package lex holds the Lex V1 code hook event and response shapes, the
// dialog-action builders, and the intent dispatcher.
package lex

// Invocation sources.
const (
	InvocationDialogCodeHook      = "DialogCodeHook"
	InvocationFulfillmentCodeHook = "FulfillmentCodeHook"
)

// Dialog action types.
const (
	DialogActionElicitSlot = "ElicitSlot"
	DialogActionDelegate   = "Delegate"
	DialogActionClose      = "Close"
)

// Fulfillment states.
const (
	FulfillmentStateFulfilled = "Fulfilled"
	FulfillmentStateFailed    = "Failed"
)

const ContentTypePlainText = "PlainText"

// Slots maps slot names to values. A nil value is an unfilled slot.
type Slots map[string]*string

// Value returns the slot value or "" when unset.
func (s Slots) Value(name string) string {
	if v := s[name]; v != nil {
		return *v
	}
	return ""
}

// Clone returns a shallow copy; values are shared but reassigning a key does not touch s.
func (s Slots) Clone() Slots {
	if s == nil {
		return nil
	}
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type Bot struct {
	Name    string `json:"name"`
	Alias   string `json:"alias,omitempty"`
	Version string `json:"version,omitempty"`
}

type Intent struct {
	Name               string `json:"name" validate:"required"`
	Slots              Slots  `json:"slots"`
	ConfirmationStatus string `json:"confirmationStatus,omitempty"`
}

// Event is the request Lex sends to the code hook.
type Event struct {
	MessageVersion    string            `json:"messageVersion,omitempty"`
	InvocationSource  string            `json:"invocationSource" validate:"required,oneof=DialogCodeHook FulfillmentCodeHook"`
	UserID            string            `json:"userId"`
	InputTranscript   string            `json:"inputTranscript,omitempty"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	Bot               Bot               `json:"bot"`
	OutputDialogMode  string            `json:"outputDialogMode,omitempty"`
	CurrentIntent     *Intent           `json:"currentIntent" validate:"required"`
}

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// PlainText wraps content as a PlainText message.
func PlainText(content string) *Message {
	return &Message{ContentType: ContentTypePlainText, Content: content}
}

type DialogAction struct {
	Type             string   `json:"type"`
	FulfillmentState string   `json:"fulfillmentState,omitempty"`
	Message          *Message `json:"message,omitempty"`
	IntentName       string   `json:"intentName,omitempty"`
	Slots            Slots    `json:"slots,omitempty"`
	SlotToElicit     string   `json:"slotToElicit,omitempty"`
}

// Response is returned to Lex.
type Response struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}
