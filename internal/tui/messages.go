package tui

import "github.com/Veraticus/alertledger/internal/service"

// pageLoadedMsg carries the result of reading the page that starts at cursor.
type pageLoadedMsg struct {
	err    error
	page   *service.Page
	cursor string
	nav    navigation
}
