package lex

// ElicitSlot asks the user for slotToElicit again, showing message.
func ElicitSlot(session map[string]string, intentName string, slots Slots, slotToElicit string, message *Message) Response {
	return Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:         DialogActionElicitSlot,
			IntentName:   intentName,
			Slots:        slots.Clone(),
			SlotToElicit: slotToElicit,
			Message:      message,
		},
	}
}

// Delegate lets Lex pick the next step of the dialog.
func Delegate(session map[string]string, slots Slots) Response {
	return Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:  DialogActionDelegate,
			Slots: slots.Clone(),
		},
	}
}

// Close ends the dialog with fulfillmentState.
func Close(session map[string]string, fulfillmentState string, message *Message) Response {
	return Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:             DialogActionClose,
			FulfillmentState: fulfillmentState,
			Message:          message,
		},
	}
}
