package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var guestGreetings = [...]string{
	"Nine projects to a page and none of them are yours.",
	"Somebody shipped a side project today. You read about it instead.",
	"The showcase is open. Your seat in it is not taken yet.",
	"Browsing is free. Bragging requires an account.",
	"Your best project is sitting in a private repo, telling nobody.",
	"Three stars were handed out this hour. None landed on you.",
	"The review queue has seen worse than whatever you're hesitating over.",
	"A README is not a showcase. Come do it properly.",
	"Every project on the front page started as someone pressing 2.",
	"You have opinions about these projects. Sign in and leave them.",
	"Approved, pending, rejected. You currently qualify for none of the above.",
	"The gallery holds five images. Surely you have one screenshot.",
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Bold(true).
		Render("P O W E R F O L I O")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Showcase your projects. Discover everyone else's.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"powerfolio", "Browse the showcase (interactive TUI)"},
		{"powerfolio login", "Sign in with email and password"},
		{"powerfolio login --admin", "Sign in to the review console"},
		{"powerfolio register", "Create an account"},
		{"powerfolio whoami", "Show the signed-in account"},
		{"powerfolio logout", "Clear your session"},
		{"powerfolio update", "Check for updates"},
		{"powerfolio --version", "Show version"},
		{"powerfolio help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	url := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("https://github.com/powerfolio/powerfolio")
	fmt.Printf("\n  %s\n\n", url)
}

func printGuestGreeting() {
	msg := guestGreetings[rand.IntN(len(guestGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Bold(true).
		Render("POWERFOLIO")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: powerfolio login")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
