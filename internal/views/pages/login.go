package pages

// LoginFeedbackID receives login errors.
const LoginFeedbackID = "login-feedback"
