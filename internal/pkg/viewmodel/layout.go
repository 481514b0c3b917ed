package viewmodel

import "github.com/gofiber/fiber/v2"

type Layout struct {
	Page        string
	Connected   bool
	Wallet      string
	IsError     bool
	Msg         fiber.Map
	OGViewModel *OpenGraph
}
