// Package demo provides the canned texts served when the assistant runs in
// demonstration mode or when the generator is unavailable.
package demo

import (
	"strings"
)

const (
	defaultTarget = "nouveau métier"

	notice = "*DÉMONSTRATION - Ce contenu est généré avec des données d'exemple. " +
		"Le service connecté à Gemini produit des résultats personnalisés selon votre profil réel.*"
)

func target(t string) string {
	if t = strings.TrimSpace(t); t == "" {
		return defaultTarget
	}
	return t
}

// CV returns a sample career-change CV for the target position.
func CV(targetPosition string) string {
	t := target(targetPosition)
	return strings.NewReplacer("{{TARGET}}", t, "{{NOTICE}}", notice).Replace(cvTemplate)
}

// Analysis returns a sample CV/job fit analysis.
func Analysis() string {
	return analysisText + "\n\n---\n" + notice
}

// Summary returns a sample professional summary.
func Summary(targetPosition string) string {
	return "Professionnel en reconversion vers " + target(targetPosition) +
		", fort d'une expérience diversifiée et de compétences transférables en gestion de projet, " +
		"communication et analyse. Motivé par les nouveaux défis et déterminé à apporter une valeur ajoutée grâce à un parcours atypique."
}

// Achievements returns generic achievement bullets.
func Achievements() []string {
	return []string{
		"Optimisé les processus de l'équipe",
		"Atteint les objectifs fixés",
		"Collaboré efficacement",
	}
}

// Keywords returns sample job keywords.
func Keywords() []string {
	return []string{"gestion de projet", "communication", "analyse", "adaptabilité", "outils numériques"}
}

const cvTemplate = `# CV - Reconversion Professionnelle

## Profil Professionnel
Professionnel en reconversion vers **{{TARGET}}**, fort de mon expérience diversifiée et de mes compétences transférables. Motivé par les nouveaux défis et déterminé à apporter une valeur ajoutée grâce à mon parcours atypique.

## Compétences Clés
- **Leadership & Management** : gestion d'équipe et coordination de projets
- **Communication** : excellent relationnel client et présentation
- **Adaptation** : capacité d'apprentissage rapide et flexibilité
- **Analyse** : résolution de problèmes et prise de décision
- **Numérique** : maîtrise des outils digitaux et nouvelles technologies

## Expérience Professionnelle

### Expérience Antérieure (Transférable)
**Responsable d'équipe** - Secteur précédent (2020-2024)
- Encadrement d'une équipe de 10 personnes
- Amélioration des processus : +25% d'efficacité
- Gestion budgétaire : 500K€ annuels
- Formation et développement des collaborateurs

### Projets de Reconversion
**Formation & Projets personnels** (2024)
- Certification professionnelle en {{TARGET}}
- Réalisation de projets pratiques
- Veille technologique active

## Formation
- **Formation spécialisée** en {{TARGET}} (2024)
- **Diplôme initial** - Domaine d'origine (2018)

## Atouts pour la Reconversion
- **Vision transversale** grâce à un parcours diversifié
- **Motivation** pour ce nouveau défi
- **Capacité d'adaptation** prouvée

---
{{NOTICE}}`

const analysisText = `## Analyse de Correspondance CV/Offre

### Score de Correspondance : 78%

### Points Forts
- **Expérience managériale** directement transférable
- **Compétences en gestion de projet** très recherchées
- **Capacité d'adaptation** clairement démontrée
- **Formation récente** dans le domaine cible

### Points d'Amélioration
- **Expérience technique** à approfondir
- **Certifications spécialisées** à obtenir
- **Portfolio** de projets à étoffer
- **Réseau professionnel** à développer dans le nouveau secteur

### Mots-Clés Manquants
- Technologies spécifiques au poste
- Certifications sectorielles
- Outils métier spécialisés

### Recommandations d'Optimisation
1. **Ajouter une section "Projets"** mettant en avant vos réalisations
2. **Intégrer les mots-clés** de l'offre d'emploi
3. **Quantifier vos résultats** avec des chiffres précis
4. **Mettre en avant votre formation** en reconversion
5. **Adapter le titre** pour correspondre au poste visé`
