package pipeline

import "strings"

// DefaultInitialPrompt asks the fast model for the main arguments of an appeal.
const DefaultInitialPrompt = `Atue como um excelente assistente jurídico de um juiz federal. Liste os principais argumentos do recurso a seguir. Não use itens, tópicos, markdown ou bullet points. Não utilize "o recurso" alega, etc. Utilize o autor (a autora ou o INSS, a depender do caso, você deve determinar quem é o autor ou a autora do recurso) relata, afirma, alega, aduz, assinala, etc ... Não diga sentença monocrática, pois, sentença, por definição é monocrática. Ao mencionar decisão do juízo a quo, diga apenas sentença ou decisão recorrida. Não mencione o nome por extenso da parte autora. Inicie com "Trata-se de recurso interposto pela parte autora" (ou pelo INSS ...).Não diga "Trata-se de recurso interposto contra sentença", diga "Trata-se de recurso interposto de sentença ..." Não esqueça de relatar qual é o pedido final formulado no recurso ao final do texto que você escreverá. Segue o texto do recurso para sua análise:`

// DefaultImprovedPrompt asks the capable model to rewrite the first summary.
const DefaultImprovedPrompt = `Atue como um excelente assistente jurídico de um juiz federal. Sua função é apenas aprimorar o texto a seguir. Não é preciso expandi-lo ou transforma-lo em uma petição. O texto deve iniciar com Trata-se de recurso inominado interposto por ... de sentença ... Você deve apenas aprimorar a redação, principalmente evitando repetições. O texto a seguir constitui um resumo, uma listagem dos principais argumentos de um recurso. Elimine repetições que prejudiquem a boa leitura do texto. Não utilize itens, tópicos ou markdown na resposta. Não utilize "juiz de piso" ou "sentença de piso". Se encontrar essas expressões, substitua-as por Juízo de origem ou sentença ou sentença recorrida. `

// Prompts holds the instruction text prepended to each pass.
type Prompts struct {
	Initial  string
	Improved string
}

// DefaultPrompts returns the built-in Portuguese instructions.
func DefaultPrompts() Prompts {
	return Prompts{Initial: DefaultInitialPrompt, Improved: DefaultImprovedPrompt}
}

func (p Prompts) withDefaults() Prompts {
	if strings.TrimSpace(p.Initial) == "" {
		p.Initial = DefaultInitialPrompt
	}
	if strings.TrimSpace(p.Improved) == "" {
		p.Improved = DefaultImprovedPrompt
	}
	return p
}

// BuildPrompt joins an instruction and its subject text with a blank line.
func BuildPrompt(instruction, subject string) string {
	return instruction + "\n\n" + subject
}
