package email

import (
	"TaskFlow/Models"
	"fmt"
)

// PasswordResetDecision tells a user whether their reset request went through
func PasswordResetDecision(user Models.User, approved bool) Models.EmailMessage {
	name := user.DisplayName()
	if approved {
		return Models.EmailMessage{
			To:      []string{user.Email},
			Subject: "Your password reset was approved",
			Body: fmt.Sprintf("Hello %s,\n\nYour password reset request was approved. "+
				"You can now log in with the new password you chose.\n", name),
		}
	}
	return Models.EmailMessage{
		To:      []string{user.Email},
		Subject: "Your password reset was rejected",
		Body: fmt.Sprintf("Hello %s,\n\nYour password reset request was rejected. "+
			"Your previous password is unchanged. Contact an administrator if you still need access.\n", name),
	}
}
