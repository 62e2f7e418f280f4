package service

import (
	"strings"
	"time"

	"storefront/internal/domain"
)

// FAQ is a canned support answer.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var DefaultFAQ = []FAQ{
	{
		Question: "What sizes do you offer?",
		Answer:   "We offer sizes from US 5 to US 13. You can check our size guide for detailed measurements to find your perfect fit.",
	},
	{
		Question: "Do you ship internationally?",
		Answer:   "Yes, we ship to most countries worldwide. International shipping typically takes 7-14 business days depending on your location.",
	},
	{
		Question: "What's your return policy?",
		Answer:   "We offer a 30-day return policy for unworn items in original packaging. Please visit our Returns page for more details.",
	},
	{
		Question: "How can I track my order?",
		Answer:   "Once your order ships, you'll receive a tracking number via email. You can also check your order status in your account dashboard.",
	},
}

const (
	chatGreeting = "Hi there! 👋 How can we help you today?"
	chatReply    = "Thanks for your message! Our customer service team will respond shortly. In the meantime, you may find answers in our FAQ section."
)

// Chat is the support transcript of one session.
type Chat struct {
	faq      []FAQ
	messages []domain.ChatMessage
	now      func() time.Time
}

func NewChat(faq []FAQ, now func() time.Time) *Chat {
	if now == nil {
		now = time.Now
	}
	c := &Chat{faq: faq, now: now}
	c.append(chatGreeting, false)
	return c
}

// Ask appends a user message. Blank input is ignored and reports false.
func (c *Chat) Ask(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	c.append(text, true)
	return true
}

// Reply appends the canned bot answer and returns it.
func (c *Chat) Reply() domain.ChatMessage {
	return c.append(chatReply, false)
}

// QuickQuestion appends a FAQ question together with its answer.
func (c *Chat) QuickQuestion(question string) (domain.ChatMessage, error) {
	for _, f := range c.faq {
		if f.Question == question {
			c.append(f.Question, true)
			return c.append(f.Answer, false), nil
		}
	}
	return domain.ChatMessage{}, domain.ErrNotFound
}

func (c *Chat) FAQ() []FAQ { return c.faq }

func (c *Chat) Messages() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), c.messages...)
}

func (c *Chat) append(content string, user bool) domain.ChatMessage {
	m := domain.ChatMessage{ID: len(c.messages) + 1, Content: content, IsUser: user, At: c.now()}
	c.messages = append(c.messages, m)
	return m
}
