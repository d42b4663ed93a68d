package services

// Replies parameterizes every user-visible text and template name so one
// engine serves any locale or deployment flavor.
type Replies struct {
	WelcomeTemplate     string
	CertificateTemplate string

	PromptName           string
	PromptNumber         string
	PromptCustomMessage  string
	ConfirmSendFmt       string // recipient name
	InvalidCertificate   string
	InvalidName          string
	InvalidNumber        string
	InvalidCustomMessage string
	CertificateSent      string
	AskAnother           string
	SessionEnded         string
	YesNoPrompt          string
	PaymentLinkFmt       string // checkout URL
	PaymentError         string
	AwaitingPayment      string
	PaymentThanksFmt     string // recipient name
	UnknownStep          string
	SuccessPage          string
	CancelPage           string

	StartTokens []string
	StopTokens  []string
	YesTokens   []string
	NoTokens    []string
}

// DefaultReplies returns the Arabic production texts.
func DefaultReplies() Replies {
	return Replies{
		WelcomeTemplate:     "wel_sel",
		CertificateTemplate: "gift",

		PromptName:           "وش اسم الشخص اللي ودك ترسله الشهاده",
		PromptNumber:         "ادخل رقم واتساب المستلم مع رمز الدولة \nمثال: \n  عمان 96890000000 \n  966500000000 السعودية",
		PromptCustomMessage:  "اكتب رسالة قصيرة ترفق مع الشهادة (50 حرف كحد أقصى).",
		ConfirmSendFmt:       "سيتم إرسال الشهادة إلى %s. هل تريد إرسالها الآن؟ (نعم/لا)",
		InvalidCertificate:   "يرجى اختيار رقم صحيح من 1 إلى 10.",
		InvalidName:          "يرجى إدخال اسم صحيح.",
		InvalidNumber:        "يرجى إدخال رقم صحيح يشمل رمز الدولة.",
		InvalidCustomMessage: "يرجى كتابة رسالة من سطر واحد لا تتجاوز 50 حرفاً.",
		CertificateSent:      "تم إرسال الشهادة بنجاح.",
		AskAnother:           "هل ترغب في إرسال شهادة أخرى؟ (نعم/لا)",
		SessionEnded:         "تم إنهاء الجلسة. شكراً.",
		YesNoPrompt:          "يرجى الرد بـ (نعم/لا).",
		PaymentLinkFmt:       "لإتمام الدفع، الرجاء زيارة الرابط التالي: %s",
		PaymentError:         "حدث خطأ في إنشاء جلسة الدفع. حاول مرة أخرى.",
		AwaitingPayment:      "ننتظر تأكيد الدفع...",
		PaymentThanksFmt:     "شكراً للدفع! الشهادة تم إرسالها بنجاح إلى %s.",
		UnknownStep:          "حدث خطأ. أرسل 'مرحبا' أو 'ابدأ' لتجربة جديدة.",
		SuccessPage:          "شكراً على الدفع! يمكنك العودة إلى التطبيق لإكمال العمليات.",
		CancelPage:           "تم إلغاء الدفع. يمكنك العودة إلى التطبيق لإعادة المحاولة.",

		StartTokens: []string{"hello", "hi", "مرحبا", "ابدأ"},
		StopTokens:  []string{"stop", "توقف", "إيقاف"},
		YesTokens:   []string{"نعم", "yes"},
		NoTokens:    []string{"لا", "no"},
	}
}
