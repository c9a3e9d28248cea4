package storefront

import "sync"

// Variant styles a toast.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a short notification shown to the shopper.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Notification texts.
var (
	ToastBooksFailed = Toast{Title: "त्रुटि", Description: "पुस्तकहरू लोड गर्न असफल भयो।", Variant: VariantDestructive}
	ToastCartAdded   = Toast{Title: "सफल!", Description: "पुस्तक कार्टमा थपियो।", Variant: VariantDefault}
	ToastCartFailed  = Toast{Title: "त्रुटि", Description: "कार्टमा थप्न असफल भयो।", Variant: VariantDestructive}

	ToastSignedIn      = Toast{Title: "सफल!", Description: "सफलतापूर्वक लगइन भयो।", Variant: VariantDefault}
	ToastSignInFailed  = Toast{Title: "त्रुटि", Description: "इमेल वा पासवर्ड मिलेन।", Variant: VariantDestructive}
	ToastSignedUp      = Toast{Title: "सफल!", Description: "खाता सिर्जना भयो।", Variant: VariantDefault}
	ToastConfirmEmail  = Toast{Title: "सफल!", Description: "कृपया आफ्नो इमेल पुष्टि गर्नुहोस्।", Variant: VariantDefault}
	ToastSignUpFailed  = Toast{Title: "त्रुटि", Description: "खाता सिर्जना गर्न असफल भयो।", Variant: VariantDestructive}
	ToastAccountExists = Toast{Title: "त्रुटि", Description: "यो इमेल पहिले नै दर्ता भइसकेको छ।", Variant: VariantDestructive}
	ToastSignOutFailed = Toast{Title: "त्रुटि", Description: "बाहिर निस्कन असफल भयो।", Variant: VariantDestructive}
)

// UI receives what the page wants the shopper to see outside the render model.
type UI interface {
	Toast(t Toast)
	PromptAuth()
}

// Feedback is a UI that collects notifications so a handler can render or
// carry them across a redirect.
type Feedback struct {
	mu          sync.Mutex
	toasts      []Toast
	authPrompts int
}

func (f *Feedback) Toast(t Toast) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toasts = append(f.toasts, t)
}

func (f *Feedback) PromptAuth() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authPrompts++
}

// Toasts returns the collected toasts in arrival order.
func (f *Feedback) Toasts() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Toast(nil), f.toasts...)
}

// AuthPrompts counts PromptAuth calls.
func (f *Feedback) AuthPrompts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authPrompts
}
