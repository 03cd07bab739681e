package dashboard

import "context"

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword validates the new password locally, then asks the API to
// change it. A policy failure returns before any request is made.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	return c.post(ctx, "/auth/change-password", changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}

// ForgotPassword requests a password reset email. The API answers the same
// way whether or not the address exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/forgot-password", forgotPasswordRequest{Email: email}, nil)
}

// ResetPassword completes a reset using the emailed token. The new password
// is validated locally first.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	return c.post(ctx, "/auth/reset-password", resetPasswordRequest{
		Token:       token,
		NewPassword: newPassword,
	}, nil)
}
