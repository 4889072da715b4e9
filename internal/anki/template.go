package anki

// Field names of the vocabulary note type.
const (
	FieldID                    = "Id"
	FieldEnglishWord           = "EnglishWord"
	FieldEnglishCloze          = "EnglishCloze"
	FieldVietnameseTranslation = "VietnameseTranslation"
	FieldVietnameseCloze       = "VietnameseCloze"
	FieldIPA                   = "IPA"
	FieldWordType              = "WordType"
	FieldExampleSentence       = "ExampleSentence"
	FieldExampleSentenceVN     = "ExampleSentenceVN"
	FieldAudioFile             = "AudioFile"
	FieldSyllables             = "Syllables"
)

// VocabTemplateName names the note type. The field list of a note type is
// fixed once created, so any change to it needs a new name.
const VocabTemplateName = "English Vocab Cloze Template 2.0"

// CardTemplate is the front and back markup of one card of a note type.
type CardTemplate struct {
	Name  string `json:"Name"`
	Front string `json:"Front"`
	Back  string `json:"Back"`
}

// Template describes a note type.
type Template struct {
	Name   string
	Fields []string
	CSS    string
	Cards  []CardTemplate
}

// VocabTemplate returns the cloze vocabulary note type. Id comes first
// because Anki checks duplicates on the first field.
func VocabTemplate() Template {
	return Template{
		Name: VocabTemplateName,
		Fields: []string{
			FieldID,
			FieldEnglishWord,
			FieldEnglishCloze,
			FieldVietnameseTranslation,
			FieldVietnameseCloze,
			FieldIPA,
			FieldWordType,
			FieldExampleSentence,
			FieldExampleSentenceVN,
			FieldAudioFile,
			FieldSyllables,
		},
		CSS: vocabCSS,
		Cards: []CardTemplate{
			{Name: "Vocabulary Cloze", Front: vocabFront, Back: vocabBack},
		},
	}
}

const vocabCSS = `.card {
  font-family: arial;
  font-size: 22px;
  text-align: center;
  color: #222;
  background: #fff;
  padding: 24px 8px;
}

.cloze {
  font-weight: bold;
  color: #1565c0;
  font-size: 28px;
  margin: 18px 0 8px 0;
  letter-spacing: 2px;
}

.translation {
  color: #388e3c;
  font-size: 20px;
  margin: 10px 0 18px 0;
}

.ipa {
  color: #555;
  font-size: 18px;
  margin-bottom: 6px;
}

.wordtype {
  color: #888;
  font-size: 16px;
  margin-bottom: 12px;
}

.audio-button {
  background: none;
  color: #1976d2;
  border: none;
  cursor: pointer;
  font-size: 18px;
  margin: 8px 0;
}

.syllable {
  display: inline-block;
  background: #e3eafc;
  color: #1565c0;
  padding: 6px 16px;
  margin: 2px 4px;
  border-radius: 6px;
  font-weight: bold;
}

.example {
  margin-top: 18px;
  padding: 12px;
  background: #f1f8e9;
  border-radius: 4px;
  color: #333;
}`

// audioBlock plays the stored recording and falls back to the online one.
const audioBlock = `{{#AudioFile}}
<button class="audio-button" onclick="playAudio()">🔊</button>
<audio id="localAudio" preload="auto">
  <source src="{{AudioFile}}" type="audio/mpeg">
</audio>
{{/AudioFile}}
<audio id="onlineAudio" preload="auto">
  <source src="https://ssl.gstatic.com/dictionary/static/sounds/20200429/{{EnglishWord}}--_us_1.mp3" type="audio/mpeg">
</audio>
<script>
function playAudio() {
  var local = document.getElementById('localAudio');
  var online = document.getElementById('onlineAudio');
  if (local && local.canPlayType('audio/mpeg')) {
    local.play().catch(function() { online.play(); });
  } else {
    online.play();
  }
}
</script>`

const vocabFront = `<div class="cloze">{{EnglishCloze}}</div>
<div class="ipa">{{IPA}}</div>
<div class="wordtype">({{WordType}})</div>
<div class="translation">{{VietnameseCloze}}</div>
` + audioBlock

const vocabBack = `<div class="cloze">{{EnglishWord}}</div>
<div id="syllables" style="margin: 10px 0;"></div>
<script>
(function() {
  var syllables = "{{Syllables}}";
  var container = document.getElementById("syllables");
  if (!syllables || !container) return;
  syllables.split(/,\s*/).forEach(function(part) {
    var span = document.createElement("span");
    span.className = "syllable";
    span.textContent = part;
    container.appendChild(span);
  });
})();
</script>
<div class="ipa">{{IPA}}</div>
<div class="wordtype">({{WordType}})</div>
<div class="translation">{{VietnameseTranslation}}</div>
` + audioBlock + `
<div class="example"><strong>Example:</strong> {{ExampleSentence}}</div>
<div class="example"><strong>Ví dụ:</strong> {{ExampleSentenceVN}}</div>`
