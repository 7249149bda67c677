package llm

import "fmt"

const highlightPrompt = `You extract the most important passages from the abstract of a research paper. The passages will later be searched for and highlighted inside the PDF, so copy them character for character: do not rephrase, fix typos or change punctuation. Cover every important piece of information.

Abstract:

%s

Respond with JSON in exactly this shape:

{
  "text": ["passage to highlight", "passage to highlight"]
}`

const paperSummaryPrompt = `You summarize research papers for an AI newsletter. Answer only with compact bullet points, grouped in four parts which must all be present:

1. insights: key insights of the paper
2. problem: the problem the paper addresses
3. solution: the solution proposed in the paper
4. results: the results

Paper:

%s

Respond with JSON in exactly this shape:

{
  "insights": ["bullet point"],
  "problem": ["bullet point"],
  "solution": ["bullet point"],
  "results": ["bullet point"]
}`

const aiReposPrompt = `Below are today's trending GitHub repositories. We are curating an AI newsletter and need every repository that has something to do with AI (machine learning, LLMs, agents, generative models, AI tooling).

Repositories:

---
%s
---

Respond with JSON listing the full names (owner/name) of the AI related repositories, exactly as given. Return an empty array if none are AI related:

{
  "result": ["owner/name"]
}`

const readmePrompt = `You summarize the README of a GitHub repository for an AI newsletter. Answer only with compact bullet points. If the README is not in English, translate to English. The summary has three parts which must all be present:

1. features: key features of the repository
2. use cases: use cases
3. technical highlights: technical highlights

If a part cannot be derived from the README, add the single bullet point "No information available based on the readme."

README:

%s

Respond with JSON in exactly this shape:

{
  "features": ["bullet point"],
  "use cases": ["bullet point"],
  "technical highlights": ["bullet point"]
}`

const hackernewsPrompt = `Below are the title and link of every post on the Hacker News front page. We are curating an AI newsletter: return the posts that are AI related, with title and link unchanged.

Posts:

---
%s
---

Respond with JSON in exactly this shape, with an empty array if no post is AI related:

{
  "result": [{"title": "title", "link": "link"}]
}`

const redditPrompt = `Below is today's top post of a subreddit. Write a short summary of what the post is about. If the post has no content or contains content you cannot handle, return an empty string as the summary.

Post:

---
%s
---

Respond with JSON in exactly this shape:

{
  "summary": "summary"
}`

const digestPrompt = `You write the daily email of an AI newsletter. Below are the items of today's issue grouped by source. Write an email subject (max 80 characters, no emoji) and a short markdown summary of the highlights (3 to 5 sentences).

%s

Respond with JSON in exactly this shape:

{
  "title": "subject",
  "summary": "markdown summary"
}`

const coverPrompt = `A clean, modern editorial illustration for an AI research newsletter issue titled "%s". Abstract shapes, soft blue palette, no text, no letters.`

func HighlightPrompt(abstract string) string { return fmt.Sprintf(highlightPrompt, abstract) }

func PaperSummaryPrompt(text string) string { return fmt.Sprintf(paperSummaryPrompt, text) }

func AIReposPrompt(repos string) string { return fmt.Sprintf(aiReposPrompt, repos) }

func ReadmePrompt(readme string) string { return fmt.Sprintf(readmePrompt, readme) }

func HackernewsPrompt(posts string) string { return fmt.Sprintf(hackernewsPrompt, posts) }

func RedditPrompt(post string) string { return fmt.Sprintf(redditPrompt, post) }

func DigestPrompt(items string) string { return fmt.Sprintf(digestPrompt, items) }

func CoverPrompt(title string) string { return fmt.Sprintf(coverPrompt, title) }
