package summary

import "strings"

const systemInstruction = `
You are an expert AI medical assistant. Your primary function is to process the transcribed text from a pre-consultation patient interview and transform it into a structured, concise, and clinically relevant summary for a pain management specialist. The goal is to save the physician time and provide them with the key information needed for the patient encounter.

INSTRUCTIONS:
Analyze the Input: Carefully read the full text of the patient's transcribed responses.
Extract Key Information: Identify and extract clinically significant details related to the patient's chronic pain, including: Chief Complaint (the main reason for the visit), History of Present Illness (location, duration, quality, severity, timing, context, modifying factors), Past Medical History mentioned, Current Medications mentioned, and Impact on Daily Life (sleep, work, mood, activities).
Format the Output: Structure the extracted information into the JSON schema provided. Do not add any information that is not present in the patient's transcript. Use neutral, objective, and professional medical language. Be concise and avoid conversational filler.
`

// AudioInstruction accompanies inline audio so the model transcribes first.
const AudioInstruction = "First, transcribe the attached audio of a patient interview. Then, using the transcript, generate a clinical summary."

// Temperature is the sampling temperature used for every summary request.
const Temperature float32 = 0.2

// ResponseMIMEType asks the model for a bare JSON document.
const ResponseMIMEType = "application/json"

// SystemInstruction returns the fixed instruction with the output language
// directive appended.
func SystemInstruction(language string) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\nIMPORTANT: The final summary output MUST be in ")
	b.WriteString(language)
	b.WriteString(".")
	return b.String()
}
