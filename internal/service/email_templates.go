package service

import (
	"fmt"

	"github.com/bachecalabs/bacheca/internal/model"
)

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Post your first ad whenever you like.

Your ads: %s

If you have questions, reach out to our support team.

Best,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}

func adApprovedEmailTemplate(name, title, appName string) (string, string) {
	subject := fmt.Sprintf("Your ad is now online on %s", appName)
	body := fmt.Sprintf(`Hi %s,

Good news: your ad "%s" passed review and is now visible to everyone.

Best,
The %s Team`, name, title, appName)

	return subject, body
}

// adRejectionReasons are the owner-facing texts for each rejection code.
var adRejectionReasons = map[model.AdRejectionCode]string{
	model.AdRejectDuplicate:         "it duplicates another ad you already posted",
	model.AdRejectProhibitedContent: "it contains content that is not allowed on the platform",
	model.AdRejectMisleadingInfo:    "some of its information appears misleading or inaccurate",
	model.AdRejectWrongCategory:     "it was posted in the wrong category",
	model.AdRejectPoorImages:        "its images are too low quality to represent the listing",
	model.AdRejectSuspectedScam:     "it shows signs of a scam",
	model.AdRejectOther:             "it does not meet our publishing guidelines",
}

func adRejectedEmailTemplate(name, title string, code model.AdRejectionCode, note, appName string) (string, string) {
	subject := fmt.Sprintf("Your ad was not approved on %s", appName)

	reason := adRejectionReasons[code]
	if reason == "" {
		reason = adRejectionReasons[model.AdRejectOther]
	}

	body := fmt.Sprintf(`Hi %s,

We reviewed your ad "%s" and could not approve it because %s.`, name, title, reason)

	if note != "" {
		body += fmt.Sprintf(`

Note from the moderator: %s`, note)
	}

	body += fmt.Sprintf(`

You can edit the ad and submit it again at any time.

Best,
The %s Team`, appName)

	return subject, body
}

func verificationApprovedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("You are now verified on %s", appName)
	body := fmt.Sprintf(`Hi %s,

Your verification request was approved. Your profile now carries the verified badge.

Best,
The %s Team`, name, appName)

	return subject, body
}

var verificationRejectionReasons = map[model.VerificationRejectionCode]string{
	model.VerificationRejectBlurryImage:      "the uploaded image was too blurry to read",
	model.VerificationRejectDocumentMismatch: "the document does not match your account details",
	model.VerificationRejectExpiredDocument:  "the document has expired",
	model.VerificationRejectUnsupported:      "the chosen method is not supported for your situation",
	model.VerificationRejectSuspectedFraud:   "we could not confirm the document's authenticity",
	model.VerificationRejectOther:            "it did not meet our verification requirements",
}

func verificationRejectedEmailTemplate(name string, code model.VerificationRejectionCode, note, appName string) (string, string) {
	subject := fmt.Sprintf("Your verification request on %s", appName)

	reason := verificationRejectionReasons[code]
	if reason == "" {
		reason = verificationRejectionReasons[model.VerificationRejectOther]
	}

	body := fmt.Sprintf(`Hi %s,

We reviewed your verification request and could not approve it because %s.`, name, reason)

	if note != "" {
		body += fmt.Sprintf(`

Note from the reviewer: %s`, note)
	}

	body += fmt.Sprintf(`

You can submit a new request with updated documents at any time.

Best,
The %s Team`, appName)

	return subject, body
}
