package auth

// Provider error codes reported by the browser sign-in flow
const (
	CodePopupClosed    = "auth/popup-closed-by-user"
	CodePopupBlocked   = "auth/popup-blocked"
	CodeCancelledPopup = "auth/cancelled-popup-request"
	CodeNetworkFailed  = "auth/network-request-failed"
)

// MessageForCode maps a provider sign-in error code to the message shown to
// the user. Unknown codes get a generic message.
func MessageForCode(code string) string {
	switch code {
	case CodePopupClosed:
		return "Sign-in cancelled. Please try again."
	case CodePopupBlocked:
		return "Pop-up blocked by browser. Please allow pop-ups and try again."
	case CodeCancelledPopup:
		return "Multiple pop-up requests detected. Please try again."
	case CodeNetworkFailed:
		return "Network error. Please check your connection and try again."
	default:
		return "An error occurred during sign in. Please try again."
	}
}
