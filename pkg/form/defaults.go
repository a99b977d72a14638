package form

import "github.com/goliatone/go-userform/pkg/model"

// DefaultValues returns the literal sample record the registration form
// starts from. Only image is invalid out of the box.
func DefaultValues() model.FormValue {
	return model.FormValue{
		"image":    model.Absent(),
		"fullName": model.Text("raja ji"),
		"address":  model.Text("bhopal"),
		"gender":   model.Text("Male"),
		"email":    model.Text("abc@gmail.com"),
		"mobile":   model.Text("0123456789"),
		"pincode":  model.Text("436106"),
		"password": model.Text("123456"),
	}
}
