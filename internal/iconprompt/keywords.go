package iconprompt

// Keyword tables hold normalized phrases (see textnorm.Normalize). Phrases
// listed as ambiguous are also ordinary words and only count when the text
// has a context word for their category.
type language struct {
	name      string
	phrases   []string
	ambiguous []string
}

var languages = []language{
	{"Python", []string{"python"}, nil},
	{"JavaScript", []string{"javascript", "nodejs"}, nil},
	{"TypeScript", []string{"typescript"}, nil},
	{"Java", []string{"java"}, nil},
	{"Go", []string{"golang", "lenguaje go", "go language", "programacion en go", "programming in go"}, nil},
	{"Rust", nil, []string{"rust"}},
	{"C++", []string{"cpp"}, nil},
	{"C#", []string{"csharp", "dotnet"}, nil},
	{"Kotlin", []string{"kotlin"}, nil},
	{"Swift", nil, []string{"swift"}},
	{"Ruby", []string{"ruby on rails"}, []string{"ruby"}},
	{"PHP", []string{"php"}, nil},
	{"HTML", []string{"html"}, nil},
	{"CSS", []string{"css"}, nil},
}

type game struct {
	name      string
	aliases   []string
	ambiguous []string
}

var games = []game{
	{"League of Legends", []string{"league of legends"}, []string{"lol"}},
	{"Valorant", []string{"valorant"}, nil},
	{"Fortnite", []string{"fortnite"}, nil},
	{"Minecraft", []string{"minecraft"}, nil},
	{"Dota 2", []string{"dota 2", "dota"}, nil},
	{"Overwatch", []string{"overwatch"}, nil},
	{"Pokémon", []string{"pokemon"}, nil},
	{"The Legend of Zelda", []string{"legend of zelda", "zelda"}, nil},
	{"Genshin Impact", []string{"genshin impact", "genshin"}, nil},
	{"Counter-Strike", []string{"counter strike", "csgo", "cs2"}, nil},
	{"Apex Legends", []string{"apex legends"}, nil},
	{"World of Warcraft", []string{"world of warcraft", "warcraft"}, nil},
}

var (
	programmingContext = []string{
		"programacion", "programming", "programar", "lenguaje", "language", "codigo", "code",
		"coding", "desarrollo", "developer", "software", "compilador", "compiler", "sintaxis",
		"syntax", "framework", "funciones", "functions", "variables", "script", "backend", "frontend",
	}
	gameContext = []string{
		"juego", "juegos", "videojuego", "videojuegos", "game", "games", "gaming", "gamer",
		"partida", "partidas", "jugador", "jugadores", "player", "players", "esports", "ranked",
	}

	characterKeywords = []string{
		"campeon", "campeona", "campeones", "champion", "champions",
		"personaje", "personajes", "character", "characters",
		"heroe", "heroina", "heroes", "hero",
		"agente", "agentes", "agent", "agents",
	}
	mapKeywords = []string{
		"mapa", "mapas", "map", "maps", "region", "regiones", "zona", "escenario",
	}
	itemKeywords = []string{
		"item", "items", "objeto", "objetos", "arma", "armas", "weapon", "weapons",
		"equipamiento", "skin", "skins",
	}

	// subjectConnectors are dropped from the end of an extracted subject.
	subjectConnectors = map[string]bool{
		"de": true, "del": true, "of": true, "in": true, "en": true,
		"la": true, "el": true, "the": true, "y": true, "and": true,
	}
)

type concept struct {
	name     string
	metaphor string
	phrases  []string
}

var concepts = []concept{
	{
		name:     "algorithms",
		metaphor: "a flowchart of glowing connected steps with arrows",
		phrases: []string{
			"algoritmo", "algoritmos", "algorithm", "algorithms", "ordenamiento", "sorting",
			"recursion", "busqueda binaria", "binary search", "complejidad", "big o",
		},
	},
	{
		name:     "data structures",
		metaphor: "colorful connected nodes forming a small tree",
		phrases: []string{
			"estructura de datos", "estructuras de datos", "data structure", "data structures",
			"arbol", "arboles", "grafo", "grafos", "graph", "graphs", "lista enlazada",
			"linked list", "tabla hash", "hash table", "pila", "stack",
		},
	},
	{
		name:     "databases",
		metaphor: "three stacked database cylinders with a small magnifying glass",
		phrases: []string{
			"base de datos", "bases de datos", "database", "databases", "sql", "nosql",
			"postgresql", "postgres", "mysql", "mongodb",
		},
	},
	{
		name:     "mathematics",
		metaphor: "floating geometric shapes with a compass and a pencil",
		phrases: []string{
			"matematica", "matematicas", "math", "mathematics", "algebra", "calculo", "calculus",
			"geometria", "geometry", "estadistica", "statistics", "probabilidad", "probability",
		},
	},
	{
		name:     "security",
		metaphor: "a sturdy shield with a padlock in the center",
		phrases: []string{
			"seguridad", "security", "ciberseguridad", "cybersecurity", "criptografia",
			"cryptography", "hacking", "pentesting",
		},
	},
	{
		name:     "machine learning",
		metaphor: "a friendly glowing brain made of neural network nodes",
		phrases: []string{
			"machine learning", "aprendizaje automatico", "inteligencia artificial",
			"artificial intelligence", "red neuronal", "redes neuronales", "neural network",
			"neural networks", "deep learning",
		},
	},
	{
		name:     "cloud computing",
		metaphor: "a soft cloud above a row of small servers",
		phrases: []string{
			"nube", "cloud", "computacion en la nube", "aws", "azure", "kubernetes", "docker", "devops",
		},
	},
	{
		name:     "project management",
		metaphor: "a kanban board with colorful sticky notes and a checklist",
		phrases: []string{
			"gestion de proyectos", "project management", "scrum", "agile", "agil", "kanban",
		},
	},
}
