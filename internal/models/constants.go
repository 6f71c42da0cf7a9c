package models

const (
	// MaxSummaryContextChars bounds how much of the document is inlined
	// into a summary prompt.
	MaxSummaryContextChars = 3_000_000

	// TruncationMarker is appended when the full text exceeds the budget.
	TruncationMarker = "\n\n[document truncated]"

	// ContextSeparator sits between retrieved excerpts in the prompt.
	ContextSeparator = "\n\n---\n\n"

	// FullDocumentSource is the attribution footer for summary answers.
	FullDocumentSource = "\n\n*Source: Full Document Analysis*"
)

var (
	SummaryPromptTemplate = `You are a helpful assistant. Use the document below to fulfil the user's request.
<document>
%s
</document>
Request: %s
`

	RetrievalPromptTemplate = `You are a helpful assistant. Answer the question using only the context below. If the answer is not present in the context, say so explicitly instead of guessing.
<context>
%s
</context>
Question: %s
`
)
