package app

import "github.com/nateberkopec/toastdemo/internal/toast"

type demoAction struct {
	label      string
	keys       []string
	category   toast.Category
	title      string
	body       string
	dismissAll bool
}

var demoActions = []demoAction{
	{
		label:    "Success",
		keys:     []string{"s"},
		category: toast.CategorySuccess,
		title:    "Success!",
		body:     "Your changes have been saved.",
	},
	{
		label:    "Error",
		keys:     []string{"e"},
		category: toast.CategoryError,
		title:    "Something went wrong",
		body:     "The request could not be completed.",
	},
	{
		label:    "Warning",
		keys:     []string{"w"},
		category: toast.CategoryWarning,
		title:    "Heads up",
		body:     "Your session expires in 5 minutes.",
	},
	{
		label:    "Info",
		keys:     []string{"i"},
		category: toast.CategoryInfo,
		title:    "New version available",
		body:     "Restart to update.",
	},
	{
		label:    "Loading",
		keys:     []string{"l"},
		category: toast.CategoryLoading,
		title:    "Uploading files…",
	},
	{
		label:      "Dismiss all",
		keys:       []string{"D", "x"},
		dismissAll: true,
	},
}

func actionForKey(key string) (demoAction, bool) {
	for _, action := range demoActions {
		for _, k := range action.keys {
			if k == key {
				return action, true
			}
		}
	}
	return demoAction{}, false
}
