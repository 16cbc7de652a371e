package main

// Sample is a prompt to optimize.
type Sample struct {
	Name   string
	Prompt string
}

// Samples are realistic prompts of increasing length, written the way people
// type them into a chat box.
var Samples = []Sample{
	{
		Name:   "tiny",
		Prompt: "explain kubernetes",
	},
	{
		Name:   "short",
		Prompt: "write me a email to my landlord saying the heating is broken since monday and i need it fixed",
	},
	{
		Name: "medium",
		Prompt: `i have a csv with sales data per region and month, columns are region, month, revenue, units.
make a python script that finds the top 3 regions by revenue growth and plots it`,
	},
	{
		Name: "long",
		Prompt: `im preparing a talk for a meetup about migrating a monolith to microservices. the audience
is mostly backend devs with some experience. i want an outline with intro, the problems we had with the
monolith (slow deploys, shared db, team coupling), how we split it (strangler pattern, event bus), what went
wrong (distributed transactions, observability gaps) and lessons learned. around 30 minutes. make it engaging`,
	},
}
