// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package i18n holds the fixed user-facing texts of the storefront.

Texts are registered in a private golang.org/x/text catalog under stable keys,
with Arabic as the default language and English as the alternative. Callers
resolve them through a [*message.Printer] obtained from [NewPrinter].
*/
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// # Message Keys

const (
	// Failures
	KeyConnectivityFailure = "connectivity_failure"
	KeyGenericFailure      = "generic_failure"
	KeyRegisterFailed      = "register_failed"

	// Confirmations
	KeyVerifySuccess   = "verify_success"
	KeyResendSuccess   = "resend_success"
	KeyLogoutCompleted = "logout_completed"

	// Form validation
	KeyNameTooShort        = "name_too_short"
	KeyEmailInvalid        = "email_invalid"
	KeyMobileInvalid       = "mobile_invalid"
	KeyPasswordRequired    = "password_required"
	KeyPasswordTooShort    = "password_too_short"
	KeyPasswordMismatch    = "password_mismatch"
	KeyCountryCodeRequired = "country_code_required"
	KeyCodeLength          = "code_length"

	// Fallbacks
	KeyAnonymousUser = "anonymous_user"
)

// DefaultLanguage is used for unknown or empty locale names.
var DefaultLanguage = language.Arabic

var texts = map[language.Tag]map[string]string{
	language.Arabic: {
		KeyConnectivityFailure: "خطأ في الاتصال بالخادم. يرجى التحقق من اتصالك بالإنترنت.",
		KeyGenericFailure:      "حدث خطأ ما. يرجى المحاولة مرة أخرى.",
		KeyRegisterFailed:      "فشل في إنشاء الحساب. يرجى المحاولة مرة أخرى.",
		KeyVerifySuccess:       "تم تفعيل الحساب بنجاح! سيتم تحويلك إلى صفحة تسجيل الدخول...",
		KeyResendSuccess:       "تم إرسال كود التفعيل مرة أخرى إلى بريدك الإلكتروني",
		KeyLogoutCompleted:     "تم تسجيل الخروج",
		KeyNameTooShort:        "الاسم يجب أن يكون على الأقل حرفين",
		KeyEmailInvalid:        "البريد الإلكتروني غير صحيح",
		KeyMobileInvalid:       "رقم الهاتف غير صحيح",
		KeyPasswordRequired:    "كلمة المرور مطلوبة",
		KeyPasswordTooShort:    "كلمة المرور يجب أن تكون على الأقل 8 أحرف",
		KeyPasswordMismatch:    "كلمات المرور غير متطابقة",
		KeyCountryCodeRequired: "كود الدولة مطلوب",
		KeyCodeLength:          "كود التفعيل يجب أن يكون 6 أرقام",
		KeyAnonymousUser:       "User",
	},
	language.English: {
		KeyConnectivityFailure: "Could not reach the server. Please check your internet connection.",
		KeyGenericFailure:      "Something went wrong. Please try again.",
		KeyRegisterFailed:      "Account creation failed. Please try again.",
		KeyVerifySuccess:       "Your account is verified! Redirecting you to the login page...",
		KeyResendSuccess:       "A new verification code was sent to your email",
		KeyLogoutCompleted:     "You are signed out",
		KeyNameTooShort:        "Name must be at least 2 characters",
		KeyEmailInvalid:        "Email address is not valid",
		KeyMobileInvalid:       "Mobile number is not valid",
		KeyPasswordRequired:    "Password is required",
		KeyPasswordTooShort:    "Password must be at least 8 characters",
		KeyPasswordMismatch:    "Passwords do not match",
		KeyCountryCodeRequired: "Country code is required",
		KeyCodeLength:          "Verification code must be 6 digits",
		KeyAnonymousUser:       "User",
	},
}

var storefrontCatalog = buildCatalog()

// buildCatalog registers every text of every supported language.
func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))
	for tag, entries := range texts {
		for key, text := range entries {
			// Keys are static and texts contain no format verbs, so SetString cannot fail.
			_ = builder.SetString(tag, key, text)
		}
	}
	return builder
}

// NewPrinter returns a printer for the given locale name ("ar", "en").
//
// Unknown or empty names resolve to [DefaultLanguage].
func NewPrinter(locale string) *message.Printer {
	tag := DefaultLanguage
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			matcher := language.NewMatcher([]language.Tag{DefaultLanguage, language.English})
			_, index, confidence := matcher.Match(parsed)
			if confidence != language.No && index == 1 {
				tag = language.English
			}
		}
	}
	return message.NewPrinter(tag, message.Catalog(storefrontCatalog))
}

// Text resolves a message key with the given printer.
func Text(printer *message.Printer, key string) string {
	return printer.Sprintf(key)
}
