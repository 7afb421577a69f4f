// prompt.go — промпты вызовов Gemini.
package gemini

import "fmt"

// speakerPromptTemplate — промпт определения ролей спикеров.
// Модель обязана вернуть строго JSON-маппинг меток на роли/имена.
const speakerPromptTemplate = `Analyze this interview transcription and identify who each speaker is.

Based on the context, determine:
- Who is the interviewer (the person asking questions)
- Who is the interviewee/hero (the person being interviewed)
- If you can determine the name of any speaker from the conversation, use their name

Return ONLY a JSON object mapping speaker numbers to their roles/names. Use %[1]s for role names.
Example response format:
{"Speaker 1": "Интервьюер", "Speaker 2": "Александр (герой)"}
or in English:
{"Speaker 1": "Interviewer", "Speaker 2": "John (Hero)"}

If you cannot determine a specific name, use a role description like "Интервьюер" or "Герой интервью" (in %[1]s).

TRANSCRIPTION:
%[2]s

Respond with ONLY the JSON object, no other text.`

// summaryPromptTemplate — промпт генерации резюме интервью.
const summaryPromptTemplate = `You are an expert at summarizing interview transcriptions.
Please analyze the following interview transcription and provide your response in %[1]s:

1. A brief overview (2-3 sentences)
2. Key topics discussed (bullet points)
3. Main insights or takeaways (bullet points)
4. Notable quotes (if any)

Keep the summary concise but comprehensive. Write the entire response in %[1]s.

TRANSCRIPTION:
%[2]s`

// speakerPrompt собирает промпт определения спикеров.
func speakerPrompt(transcription, langName string) string {
	return fmt.Sprintf(speakerPromptTemplate, langName, transcription)
}

// summaryPrompt собирает промпт резюме.
func summaryPrompt(transcription, langName string) string {
	return fmt.Sprintf(summaryPromptTemplate, langName, transcription)
}
