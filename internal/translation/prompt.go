package translation

import "fmt"

func translatePrompt(word string) string {
	return fmt.Sprintf(`Translate this to Vietnamese: "%s".
Reply with a JSON object of the form {"translation": "<Vietnamese translation>"}.
Write the translation in lowercase. Only output valid JSON, no explanation, no extra text.`, word)
}

func enrichPrompt(word, translation string) string {
	return fmt.Sprintf(`For the English word "%[1]s" (Vietnamese: "%[2]s"), provide the following in JSON:
{
  "example": "<Give a simple, natural English sentence using the word \"%[1]s\". Do not use generic templates or mention the instruction itself.>",
  "exampleVN": "<Translate the example sentence to Vietnamese.>",
  "ipa": "<IPA transcription, e.g. /ˈwɜːd/>",
  "type": "<word type: n, v, adj, adv, prep, pron, conj, interj>",
  "syllables": "<Split the word into syllables, separated by comma, e.g. pro, cras, ti, nate>"
}
Only output valid JSON, no explanation, no extra text.`, word, translation)
}

func combinedPrompt(word string) string {
	return fmt.Sprintf(`For the English word "%[1]s", provide the following in JSON:
{
  "translation": "<Vietnamese translation in lowercase>",
  "example": "<Give a simple, natural English sentence using the word \"%[1]s\". Do not use generic templates or mention the instruction itself.>",
  "exampleVN": "<Translate the example sentence to Vietnamese.>",
  "ipa": "<IPA transcription, e.g. /ˈwɜːd/>",
  "type": "<word type: n, v, adj, adv, prep, pron, conj, interj>",
  "syllables": "<Split the word into syllables, separated by comma, e.g. pro, cras, ti, nate>"
}
Only output valid JSON, no explanation, no extra text.`, word)
}
